// Package dbtest opens throwaway in-memory databases for repository and
// service tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/database"
)

// Open returns a migrated in-memory SQLite database. The pool is limited to a
// single connection so every statement sees the same memory database, and
// concurrent transactions queue on it instead of failing with SQLITE_BUSY.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedBusiness inserts an unclaimed business.
func SeedBusiness(t testing.TB, db *gorm.DB, name string) *models.Business {
	t.Helper()
	b := &models.Business{BusinessName: name, City: "Austin", StateCode: "TX"}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed business: %v", err)
	}
	return b
}

// SeedUser inserts an active user.
func SeedUser(t testing.TB, db *gorm.DB, first, email string) *models.User {
	t.Helper()
	u := &models.User{FirstName: first, LastName: "Tester", Email: email, Role: models.ROLE_USER, Status: models.STATUS_ACTIVE}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCity inserts a city.
func SeedCity(t testing.TB, db *gorm.DB, name, stateCode string) *models.City {
	t.Helper()
	c := &models.City{Name: name, StateCode: stateCode, ImgURL: models.DefaultCityImgURL}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}
	return c
}
