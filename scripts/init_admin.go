package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bloom/internal/config"
	"bloom/internal/model/auth"
	"bloom/internal/pkg/id"
	"bloom/internal/pkg/logger"
	"bloom/internal/pkg/mongodb"
	"bloom/internal/pkg/password"
	authrepo "bloom/internal/repository/auth"
)

func main() {
	// same config search path as cmd/root.go
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.bloom")

	viper.SetEnvPrefix("BLOOM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
		os.Exit(1)
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	client, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	db := client.Database()
	ctx := context.Background()

	adminRepo := authrepo.NewAdminRepo(db)

	username := os.Getenv("INIT_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	passwordPlain := os.Getenv("INIT_ADMIN_PASSWORD")
	if passwordPlain == "" {
		passwordPlain = "admin123"
	}
	shopDomain := os.Getenv("INIT_ADMIN_SHOP_DOMAIN")

	admin, err := adminRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Info().Str("username", username).Msg("admin user not found, will create")
			if err := createAdmin(ctx, adminRepo, username, passwordPlain, shopDomain); err != nil {
				log.Fatal().Err(err).Msg("create admin user failed")
			}
		} else {
			log.Fatal().Err(err).Msg("failed to query admin user")
		}
	} else {
		// exists, reset the password
		log.Info().Str("username", username).Msg("admin user exists, will reset password")
		hashed, err := password.Hash(passwordPlain)
		if err != nil {
			log.Fatal().Err(err).Msg("hash password failed")
		}
		update := bson.M{
			"$set": bson.M{
				"password":    hashed,
				"shop_domain": shopDomain,
			},
		}
		if _, err := db.Collection("admin_users").UpdateOne(ctx, bson.M{"_id": admin.ID}, update); err != nil {
			log.Fatal().Err(err).Msg("update admin user failed")
		}
	}

	fmt.Printf("Admin initialized: username=%s password=%s\n", username, passwordPlain)
}

func createAdmin(ctx context.Context, repo *authrepo.AdminRepo, username, pwd, shopDomain string) error {
	hashed, err := password.Hash(pwd)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &auth.AdminUser{
		ID:         id.New(),
		Username:   username,
		Password:   hashed,
		ShopDomain: shopDomain,
	}

	return repo.Create(ctx, admin)
}
