package music

import (
	"time"

	"artist-management/internal/domain"
	"artist-management/internal/feature/artist"
)

type MusicModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	ArtistID  int64  `gorm:"index;not null"`
	Title     string `gorm:"size:255;not null"`
	AlbumName string `gorm:"size:255"`
	Genre     string `gorm:"size:32"`

	Artist *artist.ArtistModel `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (MusicModel) TableName() string { return "music" }

func FromDomain(m *domain.Music) *MusicModel {
	return &MusicModel{
		ID:        m.ID,
		ArtistID:  m.ArtistID,
		Title:     m.Title,
		AlbumName: m.AlbumName,
		Genre:     m.Genre,
	}
}

func (m *MusicModel) ToDomain() *domain.Music {
	return &domain.Music{
		ID:        m.ID,
		ArtistID:  m.ArtistID,
		Title:     m.Title,
		AlbumName: m.AlbumName,
		Genre:     m.Genre,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func Assignments(in domain.MusicUpdate) map[string]any {
	set := map[string]any{}
	if in.ArtistID != nil {
		set["artist_id"] = *in.ArtistID
	}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.AlbumName != nil {
		set["album_name"] = *in.AlbumName
	}
	if in.Genre != nil {
		set["genre"] = *in.Genre
	}
	return set
}
