package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"bloom/internal/model/auth"
	"bloom/internal/model/settings"
	"bloom/internal/pkg/jwt"
	"bloom/internal/pkg/password"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AdminStore is the operator-account persistence the admin surface needs
type AdminStore interface {
	FindByUsername(ctx context.Context, username string) (*auth.AdminUser, error)
	UpdateLastLoginAt(ctx context.Context, id string) error
}

// SettingsRepository extends the read-side singleton access with writes
type SettingsRepository interface {
	SettingsStore
	Save(ctx context.Context, s *settings.Settings) error
}

// StatsSource exposes the aggregate counters shown on the admin dashboard
type StatsSource interface {
	Count(ctx context.Context) (int64, error)
	MessageCount(ctx context.Context) (int64, error)
}

// AdminService serves the operator surface: login, settings, dashboard stats
type AdminService struct {
	admins   AdminStore
	settings SettingsRepository
	stats    StatsSource
	jwt      *jwt.JWT
	started  time.Time
}

// NewAdminService creates the admin service
func NewAdminService(admins AdminStore, settingsRepo SettingsRepository, stats StatsSource, j *jwt.JWT) *AdminService {
	return &AdminService{
		admins:   admins,
		settings: settingsRepo,
		stats:    stats,
		jwt:      j,
		started:  time.Now(),
	}
}

// LoginResult is a successful admin authentication
type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresIn int64           `json:"expires_in"`
	Admin     *auth.AdminUser `json:"admin"`
}

// Login verifies credentials and issues an access token.
// Unknown username and wrong password report the same error.
func (s *AdminService) Login(ctx context.Context, username, pwd string) (*LoginResult, error) {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(pwd, admin.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(admin.ID, admin.Username, admin.ShopDomain)
	if err != nil {
		return nil, err
	}

	if err := s.admins.UpdateLastLoginAt(ctx, admin.ID); err != nil {
		log.Warn().Err(err).Str("admin_id", admin.ID).Msg("failed to stamp admin login")
	}

	log.Info().Str("username", admin.Username).Msg("admin logged in")
	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.jwt.GetExpiration().Seconds()),
		Admin:     admin,
	}, nil
}

// GetSettings returns the settings singleton, creating it with defaults on
// first access.
func (s *AdminService) GetSettings(ctx context.Context) (*settings.Settings, error) {
	return s.settings.GetOrCreate(ctx)
}

// UpdateSettings applies a partial patch, clamps numeric fields into bounds
// and persists the result.
func (s *AdminService) UpdateSettings(ctx context.Context, u *settings.Update) (*settings.Settings, error) {
	current, err := s.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	u.Apply(current)
	if err := s.settings.Save(ctx, current); err != nil {
		return nil, err
	}

	log.Info().Str("model", current.Model).Msg("admin settings updated")
	return current, nil
}

// StatsResult summarizes service usage for the dashboard
type StatsResult struct {
	TotalChats    int64  `json:"total_chats"`
	TotalMessages int64  `json:"total_messages"`
	Uptime        string `json:"uptime"`
}

// Stats aggregates usage counters and service uptime
func (s *AdminService) Stats(ctx context.Context) (*StatsResult, error) {
	chats, err := s.stats.Count(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := s.stats.MessageCount(ctx)
	if err != nil {
		return nil, err
	}

	return &StatsResult{
		TotalChats:    chats,
		TotalMessages: messages,
		Uptime:        time.Since(s.started).Round(time.Second).String(),
	}, nil
}
