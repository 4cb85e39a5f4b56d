package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"artist-management/internal/domain"
)

type MusicService struct {
	music   domain.MusicRepository
	artists domain.ArtistRepository
	labels  func(context.Context) ([]domain.ArtistLabel, error)
	log     *zap.Logger
}

// NewMusicService labels 一般传 ArtistService.Labels（带缓存）
func NewMusicService(
	music domain.MusicRepository,
	artists domain.ArtistRepository,
	labels func(context.Context) ([]domain.ArtistLabel, error),
	l *zap.Logger,
) *MusicService {
	if l == nil {
		l = zap.NewNop()
	}
	if labels == nil {
		labels = artists.Labels
	}
	return &MusicService{music: music, artists: artists, labels: labels, log: l}
}

type CreateMusicInput struct {
	ArtistID  int64
	Title     string
	AlbumName string
	Genre     string
}

type PageData struct {
	Genre   []string             `json:"genre"`
	Artists []domain.ArtistLabel `json:"artists"`
}

func (s *MusicService) Create(ctx context.Context, in CreateMusicInput) (*domain.Music, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	m := &domain.Music{
		ArtistID:  in.ArtistID,
		Title:     title,
		AlbumName: strings.TrimSpace(in.AlbumName),
		Genre:     strings.TrimSpace(in.Genre),
	}
	if err := s.music.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MusicService) Get(ctx context.Context, id int64) (*domain.Music, error) {
	m, err := s.music.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (s *MusicService) List(ctx context.Context, p domain.Page) (*MusicPage, error) {
	rows, err := s.music.List(ctx, p)
	if err != nil {
		return nil, err
	}
	total, err := s.music.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	return newMusicPage(p, rows, total), nil
}

// ListByArtist artist 不存在时返回 ErrNotFound，而不是空页
func (s *MusicService) ListByArtist(ctx context.Context, artistID int64, p domain.Page) (*MusicPage, error) {
	a, err := s.artists.FindByID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	rows, err := s.music.ListByArtist(ctx, artistID, p)
	if err != nil {
		return nil, err
	}
	total, err := s.music.CountByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	return newMusicPage(p, rows, total), nil
}

func (s *MusicService) Update(ctx context.Context, id int64, in domain.MusicUpdate) (*domain.Music, error) {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
		}
		in.Title = &t
	}
	return s.music.Update(ctx, id, in)
}

func (s *MusicService) Delete(ctx context.Context, id int64) error {
	if err := s.music.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("music deleted", zap.Int64("music_id", id))
	return nil
}

// PageData 前端表单下拉：曲风 + artist 名称
func (s *MusicService) PageData(ctx context.Context) (*PageData, error) {
	labels, err := s.labels(ctx)
	if err != nil {
		return nil, err
	}
	genres := make([]string, len(domain.Genres))
	copy(genres, domain.Genres)
	return &PageData{Genre: genres, Artists: labels}, nil
}

func newMusicPage(p domain.Page, rows []domain.Music, total int64) *MusicPage {
	if rows == nil {
		rows = []domain.Music{}
	}
	return &MusicPage{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalMusic: total,
		TotalPages: p.TotalPages(total),
		Music:      rows,
	}
}
