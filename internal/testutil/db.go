// Package testutil 测试共用的数据库与数据构造
package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"artist-management/internal/core/database"
	"artist-management/internal/domain"
)

// NewDB 内存 SQLite，已迁移、已开启外键。单连接，保证整个测试看到同一个库。
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file::memory:?_foreign_keys=on",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// User 造一个未入库的用户；n 用于区分 email
func User(n int, role string) domain.User {
	return domain.User{
		FirstName:    fmt.Sprintf("First%d", n),
		LastName:     fmt.Sprintf("Last%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "not-a-real-hash",
		Role:         role,
		Phone:        fmt.Sprintf("555-%04d", n),
		DOB:          time.Date(1990, time.January, 1+n%28, 0, 0, 0, 0, time.UTC),
		Gender:       "f",
		Address:      fmt.Sprintf("%d Main St", n),
	}
}

func NewArtist(n int) domain.NewArtist {
	return domain.NewArtist{
		User:               User(n, domain.RoleArtist),
		FirstReleaseYear:   2000 + n%20,
		NoOfAlbumsReleased: n % 7,
	}
}
