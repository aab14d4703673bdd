package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/pkg/bcrypt"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// AdminSeed describes the account guaranteed to exist with admin rights
// after migrations. Password may be plain text or an existing bcrypt hash.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

func NewDatabase(databaseURL string, log *zap.Logger) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := Open(postgres.Open(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("connected to database")
	return db, nil
}

// Open opens a gorm handle on any dialector with the shared settings.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
}

func RunMigrations(db *gorm.DB, admin AdminSeed) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Photo{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if admin.Email == "" {
		return nil
	}
	return seedAdmin(db, admin)
}

// seedAdmin creates the admin account, or promotes an existing one.
func seedAdmin(db *gorm.DB, admin AdminSeed) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))

	var user models.User
	err := db.Where("LOWER(email) = ?", email).First(&user).Error
	switch {
	case err == nil:
		if user.IsAdmin {
			return nil
		}
		return db.Model(&user).Update("is_admin", true).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	password := admin.Password
	if !bcrypt.VerifyHash(password) {
		hashed, err := bcrypt.HashPassword(password)
		if err != nil {
			return err
		}
		password = hashed
	}

	return db.Create(&models.User{
		Email:    email,
		Password: password,
		Name:     admin.Name,
		IsAdmin:  true,
	}).Error
}
