package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"bloom/internal/model/auth"
	"bloom/internal/pkg/googleauth"
	"bloom/internal/pkg/id"
)

var ErrUserNotFound = errors.New("user not found")

// UserStore is the shopper-account persistence sign-in needs
type UserStore interface {
	Create(ctx context.Context, user *auth.User) error
	FindByID(ctx context.Context, id string) (*auth.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*auth.User, error)
	TouchLogin(ctx context.Context, id, name, picture string) error
	SetVisitorID(ctx context.Context, id, visitorID string) error
}

// CredentialVerifier validates a Google sign-in credential
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (*googleauth.Claims, error)
}

// ChatMigrator reassigns conversations between owner tokens
type ChatMigrator interface {
	MigrateOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error)
}

// AuthService handles shopper Google sign-in and the anonymous-to-signed-in
// chat migration.
type AuthService struct {
	users    UserStore
	verifier CredentialVerifier
	chats    ChatMigrator
}

// NewAuthService creates the shopper auth service
func NewAuthService(users UserStore, verifier CredentialVerifier, chats ChatMigrator) *AuthService {
	return &AuthService{
		users:    users,
		verifier: verifier,
		chats:    chats,
	}
}

// SignIn verifies a Google credential and upserts the shopper account.
// Repeat sign-ins refresh name, picture and the login timestamp.
func (s *AuthService) SignIn(ctx context.Context, credential string) (*auth.User, error) {
	claims, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByGoogleID(ctx, claims.Subject)
	if err == nil {
		if err := s.users.TouchLogin(ctx, user.ID, claims.Name, claims.Picture); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to refresh login profile")
		}
		user.Name = claims.Name
		user.Picture = claims.Picture
		return user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	user = &auth.User{
		ID:       id.New(),
		GoogleID: claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Picture:  claims.Picture,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("shopper signed up via google")
	return user, nil
}

// GetUser loads one shopper account
func (s *AuthService) GetUser(ctx context.Context, userID string) (*auth.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// MigrateChats moves every chat under the anonymous visitor token to the
// signed-in owner token and records the visitor id on the account. Reports
// how many chats moved; zero on retry is a valid no-op.
func (s *AuthService) MigrateChats(ctx context.Context, visitorID, userID string) (int64, error) {
	if visitorID == "" || userID == "" {
		return 0, ErrOwnerIDRequired
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	count, err := s.chats.MigrateOwner(ctx, visitorID, user.OwnerID())
	if err != nil {
		return 0, err
	}

	if err := s.users.SetVisitorID(ctx, user.ID, visitorID); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record visitor id")
	}

	log.Info().
		Str("user_id", user.ID).
		Int64("migrated", count).
		Msg("visitor chats migrated to signed-in owner")
	return count, nil
}
