package domain

import (
	"context"
	"time"
)

// Genres 前端下拉用的固定曲风
var Genres = []string{"rnb", "country", "classic", "rock", "jazz"}

type Music struct {
	ID        int64     `json:"id"`
	ArtistID  int64     `json:"artist_id"`
	Title     string    `json:"title"`
	AlbumName string    `json:"album_name"`
	Genre     string    `json:"genre"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MusicUpdate struct {
	ArtistID  *int64
	Title     *string
	AlbumName *string
	Genre     *string
}

func (u MusicUpdate) Empty() bool {
	return u.ArtistID == nil && u.Title == nil && u.AlbumName == nil && u.Genre == nil
}

type MusicRepository interface {
	Create(ctx context.Context, m *Music) error
	FindByID(ctx context.Context, id int64) (*Music, error)
	List(ctx context.Context, p Page) ([]Music, error)
	ListByArtist(ctx context.Context, artistID int64, p Page) ([]Music, error)
	CountAll(ctx context.Context) (int64, error)
	CountByArtist(ctx context.Context, artistID int64) (int64, error)
	Update(ctx context.Context, id int64, in MusicUpdate) (*Music, error)
	Delete(ctx context.Context, id int64) error
}
