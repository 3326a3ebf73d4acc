package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/iterator"
)

// MaxListUsers is the identity service page ceiling.
const MaxListUsers = 1000

// User is an identity record as shown in the admin console.
type User struct {
	UID            string     `json:"uid"`
	Email          string     `json:"email"`
	DisplayName    string     `json:"displayName"`
	PhotoURL       string     `json:"photoURL"`
	CreationTime   *time.Time `json:"creationTime,omitempty"`
	LastSignInTime *time.Time `json:"lastSignInTime,omitempty"`
	Disabled       bool       `json:"disabled"`
	Admin          bool       `json:"admin"`
}

// UserPage is one page of users plus the token for the next one.
type UserPage struct {
	Users         []User `json:"users"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// Directory lists identity users and manages the admin claim.
type Directory interface {
	ListUsers(ctx context.Context, limit int, pageToken string) (UserPage, error)
	SetAdmin(ctx context.Context, uid string, admin bool) error
}

type userClient interface {
	Users(ctx context.Context, nextPageToken string) *auth.UserIterator
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
}

// FirebaseDirectory implements Directory on Firebase Authentication.
type FirebaseDirectory struct {
	client userClient
}

func NewFirebaseDirectory(client userClient) (*FirebaseDirectory, error) {
	if client == nil {
		return nil, errors.New("firebase auth client required")
	}
	return &FirebaseDirectory{client: client}, nil
}

func (d *FirebaseDirectory) ListUsers(ctx context.Context, limit int, pageToken string) (UserPage, error) {
	if limit <= 0 || limit > MaxListUsers {
		limit = MaxListUsers
	}
	pager := iterator.NewPager(d.client.Users(ctx, ""), limit, pageToken)

	var records []*auth.ExportedUserRecord
	next, err := pager.NextPage(&records)
	if err != nil {
		return UserPage{}, fmt.Errorf("listing users: %w", err)
	}

	users := make([]User, 0, len(records))
	for _, rec := range records {
		if rec == nil || rec.UserRecord == nil {
			continue
		}
		users = append(users, toUser(rec.UserRecord))
	}
	return UserPage{Users: users, NextPageToken: next}, nil
}

// SetAdmin sets or clears the admin claim, keeping any other custom claims.
func (d *FirebaseDirectory) SetAdmin(ctx context.Context, uid string, admin bool) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return errors.New("uid is required")
	}
	rec, err := d.client.GetUser(ctx, uid)
	if err != nil {
		return fmt.Errorf("get user %s: %w", uid, err)
	}

	claims := map[string]interface{}{}
	for k, v := range rec.CustomClaims {
		claims[k] = v
	}
	if admin {
		claims[AdminClaim] = true
	} else {
		delete(claims, AdminClaim)
	}

	if err := d.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return fmt.Errorf("set claims for %s: %w", uid, err)
	}
	return nil
}

func toUser(rec *auth.UserRecord) User {
	u := User{
		Disabled: rec.Disabled,
		Admin:    claimTrue(rec.CustomClaims, AdminClaim),
	}
	if rec.UserInfo != nil {
		u.UID = rec.UID
		u.Email = rec.Email
		u.DisplayName = rec.DisplayName
		u.PhotoURL = rec.PhotoURL
	}
	if rec.UserMetadata != nil {
		u.CreationTime = millisToTime(rec.UserMetadata.CreationTimestamp)
		u.LastSignInTime = millisToTime(rec.UserMetadata.LastLogInTimestamp)
	}
	return u
}

func millisToTime(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
