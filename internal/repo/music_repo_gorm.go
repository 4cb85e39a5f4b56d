package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"artist-management/internal/domain"
	"artist-management/internal/feature/artist"
	"artist-management/internal/feature/music"
)

type MusicRepo struct{ db *gorm.DB }

func NewMusicRepo(db *gorm.DB) *MusicRepo { return &MusicRepo{db: db} }

func (r *MusicRepo) Create(ctx context.Context, in *domain.Music) error {
	db := r.db.WithContext(ctx)
	if err := requireArtist(db, in.ArtistID); err != nil {
		return err
	}
	m := music.FromDomain(in)
	m.ID = 0
	if err := db.Create(m).Error; err != nil {
		return translate(err)
	}
	*in = *m.ToDomain()
	return nil
}

func (r *MusicRepo) FindByID(ctx context.Context, id int64) (*domain.Music, error) {
	return findMusic(r.db.WithContext(ctx), id)
}

func (r *MusicRepo) List(ctx context.Context, p domain.Page) ([]domain.Music, error) {
	var ms []music.MusicModel
	err := r.db.WithContext(ctx).Order("id DESC").Offset(p.Offset()).Limit(p.Limit()).Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toMusic(ms), nil
}

func (r *MusicRepo) ListByArtist(ctx context.Context, artistID int64, p domain.Page) ([]domain.Music, error) {
	var ms []music.MusicModel
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("id DESC").Offset(p.Offset()).Limit(p.Limit()).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toMusic(ms), nil
}

func (r *MusicRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&music.MusicModel{}).Count(&n).Error
	return n, err
}

func (r *MusicRepo) CountByArtist(ctx context.Context, artistID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&music.MusicModel{}).Where("artist_id = ?", artistID).Count(&n).Error
	return n, err
}

func (r *MusicRepo) Update(ctx context.Context, id int64, in domain.MusicUpdate) (*domain.Music, error) {
	var out *domain.Music
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := findMusic(tx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		if in.ArtistID != nil {
			if err := requireArtist(tx, *in.ArtistID); err != nil {
				return err
			}
		}
		if set := music.Assignments(in); len(set) > 0 {
			if err := tx.Model(&music.MusicModel{}).Where("id = ?", id).Updates(set).Error; err != nil {
				return translate(err)
			}
		}
		out, err = findMusic(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MusicRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&music.MusicModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func requireArtist(tx *gorm.DB, artistID int64) error {
	var n int64
	if err := tx.Model(&artist.ArtistModel{}).Where("id = ?", artistID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: artist %d does not exist", domain.ErrInvalidInput, artistID)
	}
	return nil
}

func findMusic(tx *gorm.DB, id int64) (*domain.Music, error) {
	var m music.MusicModel
	err := tx.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func toMusic(ms []music.MusicModel) []domain.Music {
	out := make([]domain.Music, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out
}
