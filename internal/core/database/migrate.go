package database

import (
	"gorm.io/gorm"

	"artist-management/internal/feature/artist"
	"artist-management/internal/feature/music"
	"artist-management/internal/feature/user"
)

// Models 按外键依赖顺序排列
func Models() []any {
	return []any{&user.UserModel{}, &artist.ArtistModel{}, &music.MusicModel{}}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
