package container

import (
	"context"

	"iam-be/internal/config"
	"iam-be/internal/identity"
	"iam-be/internal/repository"
	"iam-be/internal/service"
	"iam-be/internal/service/auth"
	"iam-be/pkg/database"
	"iam-be/pkg/logger"
	"iam-be/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client
	Identity    service.IdentityProvider
	Profiles    repository.ProfileStore
	Services    *service.Services
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Redis is optional; without it the public endpoint runs unlimited
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without rate limiting")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without rate limiting")
	}

	identityClient := identity.NewClient(cfg.IdentityBaseURL, cfg.IdentityServiceKey, log)
	profiles := repository.NewProfileRepository(db)

	services := &service.Services{
		Users: service.NewUserService(identityClient, profiles, log),
		Auth:  auth.NewService(cfg.AuthJWTSecret, log),
	}

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,
		Identity:    identityClient,
		Profiles:    profiles,
		Services:    services,
	}, nil
}

// GetUserService returns the user service
func (c *Container) GetUserService() service.UserService {
	return c.Services.Users
}

// GetTokenVerifier returns the token verifier
func (c *Container) GetTokenVerifier() service.TokenVerifier {
	return c.Services.Auth
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetDB returns the database handle
func (c *Container) GetDB() *database.PostgresDB {
	return c.DB
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}
