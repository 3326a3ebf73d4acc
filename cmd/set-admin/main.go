package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/biowe-backend/internal/identity"
	"github.com/angelmondragon/biowe-backend/pkg/config"
	"github.com/angelmondragon/biowe-backend/pkg/firebase"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "set-admin"})
	_ = godotenv.Load()

	uid := flag.String("uid", "", "firebase uid to update")
	revoke := flag.Bool("revoke", false, "remove the admin claim instead of granting it")
	flag.Parse()

	if *uid == "" {
		fmt.Fprintln(os.Stderr, "missing -uid")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = logg.WithFields(ctx, map[string]any{"uid": *uid, "admin": !*revoke})

	app, err := firebase.New(ctx, cfg.Firebase, logg)
	if err != nil {
		logg.Error(ctx, "firebase init failed", err)
		os.Exit(1)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		logg.Error(ctx, "firebase auth client failed", err)
		os.Exit(1)
	}
	directory, err := identity.NewFirebaseDirectory(authClient)
	if err != nil {
		logg.Error(ctx, "user directory failed", err)
		os.Exit(1)
	}

	if err := directory.SetAdmin(ctx, *uid, !*revoke); err != nil {
		logg.Error(ctx, "set admin claim failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "admin claim updated; the user must refresh their ID token")
}
