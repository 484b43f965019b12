// Package migration owns the schema: every persisted model is registered here
// in dependency order and reference data is seeded after the tables exist.
package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/opol-agri/rsbsa-lambda/internal/beneficiary"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
	"github.com/opol-agri/rsbsa-lambda/internal/enrollment"
	farmparcel "github.com/opol-agri/rsbsa-lambda/internal/farm_parcel"
	farmprofile "github.com/opol-agri/rsbsa-lambda/internal/farm_profile"
	"github.com/opol-agri/rsbsa-lambda/internal/user"
)

func models() []any {
	return []any{
		&user.User{},
		&beneficiary.BeneficiaryDetail{},
		&farmprofile.LivelihoodCategory{},
		&farmprofile.FarmProfile{},
		&farmparcel.FarmParcel{},
		&farmprofile.FarmerDetails{},
		&farmprofile.FisherfolkDetails{},
		&farmprofile.FarmworkerDetails{},
		&farmprofile.AgriYouthDetails{},
		&enrollment.Enrollment{},
		&enrollment.StatusHistory{},
		&enrollment.EnrollmentSequence{},
	}
}

func Run(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := farmprofile.SeedCategories(ctx, db); err != nil {
		return fmt.Errorf("seed livelihood categories: %w", err)
	}
	config.WithContext(ctx).Info("Database migrated")
	return nil
}
