package services

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/lotus/internal/models"
)

// newTestDB opens a private in-memory database per test, with the same
// error translation the production connection uses.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	migrations := []interface{}{
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.PromoCode{},
		&models.PromoRedemption{},
		&models.Announcement{},
	}
	for _, migration := range migrations {
		if err := db.AutoMigrate(migration); err != nil {
			t.Fatalf("migrate %T: %v", migration, err)
		}
	}

	return db
}
