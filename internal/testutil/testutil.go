// Package testutil provides an isolated database, a fake asset store and
// account helpers for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mx-space/sitecms/internal/config"
	"github.com/mx-space/sitecms/internal/database"
	"github.com/mx-space/sitecms/internal/models"
	"github.com/mx-space/sitecms/internal/pkg/jwt"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	Secret   = "test-secret"
	Password = "secret123"
)

// Config returns a production-mode configuration backed by a private
// in-memory SQLite database. Rate limiting is off.
func Config() *config.AppConfig {
	cfg := &config.AppConfig{
		Port: 5000,
		Env:  "test",
		Database: config.DatabaseRuntimeConfig{
			Driver: "sqlite",
			DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		},
		JWTSecret:   Secret,
		AutoMigrate: true,
		Auth:        config.AuthConfig{TokenTTL: time.Hour, AllowAdminSignup: true},
		Media:       config.MediaConfig{Prefix: "media", MaxSizeMB: 1, SweepInterval: time.Hour},
		HTTP:        config.HTTPConfig{BodyLimitMB: 5},
	}
	cfg.DSN = cfg.Database.DSNValue()
	return cfg
}

// NewDB opens a migrated database that lives as long as the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	return OpenDB(t, Config())
}

// OpenDB connects with cfg and closes the pool on cleanup.
func OpenDB(t *testing.T, cfg *config.AppConfig) *gorm.DB {
	t.Helper()
	db, err := database.Connect(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser inserts an account whose password is Password.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.UserModel {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.UserModel{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// CreateSite inserts a site owned by ownerID.
func CreateSite(t *testing.T, db *gorm.DB, ownerID, slug string) *models.SiteModel {
	t.Helper()
	s := &models.SiteModel{OwnerID: ownerID, Name: "Site " + slug, Slug: slug, Template: "blog"}
	require.NoError(t, db.Create(s).Error)
	return s
}

// CreatePage inserts a page on site created by creatorID.
func CreatePage(t *testing.T, db *gorm.DB, siteID, creatorID, slug string, status models.PageStatus) *models.PageModel {
	t.Helper()
	p := &models.PageModel{
		SiteID:    siteID,
		CreatedBy: creatorID,
		Title:     "Page " + slug,
		Slug:      slug,
		Status:    status,
		PageType:  models.DefaultPageType,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Token signs a token for u with Secret.
func Token(t *testing.T, u *models.UserModel) string {
	t.Helper()
	token, err := jwt.NewSigner(Secret, time.Hour).Sign(u.ID, string(u.Role))
	require.NoError(t, err)
	return token
}
