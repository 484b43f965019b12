package container

import (
	"context"
	"fmt"
	"time"

	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/beneficiary"
	"github.com/opol-agri/rsbsa-lambda/internal/cache"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
	"github.com/opol-agri/rsbsa-lambda/internal/enrollment"
	farmprofile "github.com/opol-agri/rsbsa-lambda/internal/farm_profile"
	"github.com/opol-agri/rsbsa-lambda/internal/migration"
	"github.com/opol-agri/rsbsa-lambda/internal/user"
)

type Container struct {
	UserContainer        *user.UserContainer
	BeneficiaryContainer *beneficiary.BeneficiaryContainer
	FarmProfileContainer *farmprofile.FarmProfileContainer
	EnrollmentContainer  *enrollment.EnrollmentContainer
	Cache                *cache.Client
}

// New loads configuration, opens the database and Redis, migrates the schema and wires
// every feature. Redis is optional; without REDIS_URL statistics are computed on each call.
func New(ctx context.Context) (*Container, error) {
	config.Init()
	auth.Init()

	cipher, err := config.NewFieldCipher(config.GetEnv("CRYPTO_KEY"))
	if err != nil {
		return nil, fmt.Errorf("init crypto: %w", err)
	}

	if err := config.Connect(ctx, config.GetEnv("DATABASE_DSN")); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := migration.Run(ctx, config.DB); err != nil {
		return nil, err
	}

	redisClient, err := cache.New(ctx, config.GetEnv("REDIS_URL"))
	if err != nil {
		config.Logger.WithError(err).Warn("Redis unavailable, statistics cache disabled")
		redisClient = nil
	}

	userContainer := user.NewUserContainer(config.DB, cipher)
	beneficiaryContainer := beneficiary.NewBeneficiaryContainer(config.DB, userContainer.Repo, cipher)
	farmProfileContainer := farmprofile.NewFarmProfileContainer(config.DB, beneficiaryContainer.Repo)

	var opts []enrollment.Option
	if redisClient != nil {
		opts = append(opts, enrollment.WithStatsCache(redisClient, config.GetEnvDuration("STATS_CACHE_TTL", time.Minute)))
	}
	enrollmentContainer := enrollment.NewEnrollmentContainer(
		config.DB,
		userContainer.Repo,
		beneficiaryContainer.Repo,
		farmProfileContainer.Repo,
		opts...,
	)

	return &Container{
		UserContainer:        userContainer,
		BeneficiaryContainer: beneficiaryContainer,
		FarmProfileContainer: farmProfileContainer,
		EnrollmentContainer:  enrollmentContainer,
		Cache:                redisClient,
	}, nil
}

// Close releases the pooled connections.
func (c *Container) Close() error {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := config.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
