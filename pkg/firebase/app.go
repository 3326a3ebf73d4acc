package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/angelmondragon/biowe-backend/pkg/config"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
	"google.golang.org/api/option"
)

const googleTokenURI = "https://oauth2.googleapis.com/token"

// App holds the initialised Firebase app and the credentials it was built from.
type App struct {
	app       *firebase.App
	opts      []option.ClientOption
	projectID string
}

// New initialises the Firebase app from explicit service account fields, a
// credentials file, or application default credentials, in that order.
func New(ctx context.Context, cfg config.FirebaseConfig, logg *logger.Logger) (*App, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("firebase project id is required")
	}

	opts, source, err := ClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"project_id":  cfg.ProjectID,
			"credentials": source,
		}), "firebase app initialized")
	}

	return &App{app: app, opts: opts, projectID: cfg.ProjectID}, nil
}

// ClientOptions resolves credentials and reports which source was used.
func ClientOptions(cfg config.FirebaseConfig) ([]option.ClientOption, string, error) {
	switch {
	case cfg.ClientEmail != "" && cfg.PrivateKey != "":
		raw, err := serviceAccountJSON(cfg)
		if err != nil {
			return nil, "", err
		}
		return []option.ClientOption{option.WithCredentialsJSON(raw)}, "env", nil
	case cfg.ClientEmail != "" || cfg.PrivateKey != "":
		return nil, "", errors.New("firebase client email and private key must be set together")
	case cfg.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}, "file", nil
	default:
		return nil, "adc", nil
	}
}

func serviceAccountJSON(cfg config.FirebaseConfig) ([]byte, error) {
	raw, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   cfg.ProjectID,
		"client_email": cfg.ClientEmail,
		"private_key":  cfg.NormalizedPrivateKey(),
		"token_uri":    googleTokenURI,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding service account: %w", err)
	}
	return raw, nil
}

// Auth returns the identity client.
func (a *App) Auth(ctx context.Context) (*auth.Client, error) {
	client, err := a.app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return client, nil
}

// Firestore returns a document database client; callers own Close.
func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := a.app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

// Options returns the credential options so other Google clients share them.
func (a *App) Options() []option.ClientOption {
	return a.opts
}

func (a *App) ProjectID() string {
	return a.projectID
}
