package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"artist-management/internal/core/cache"
	"artist-management/internal/domain"
	"artist-management/pkg/utils"
)

const LabelsCacheKey = "artist:labels"

type ExportOptions struct {
	Dir       string // 落盘目录
	PublicURL string // 如 http://127.0.0.1:8080
	URLPrefix string // 如 /static/exports
}

type ArtistService struct {
	artists  domain.ArtistRepository
	users    domain.UserRepository
	cache    *cache.Cache
	labelTTL time.Duration
	export   ExportOptions
	log      *zap.Logger
}

func NewArtistService(
	artists domain.ArtistRepository,
	users domain.UserRepository,
	c *cache.Cache,
	labelTTL time.Duration,
	export ExportOptions,
	l *zap.Logger,
) *ArtistService {
	if l == nil {
		l = zap.NewNop()
	}
	return &ArtistService{artists: artists, users: users, cache: c, labelTTL: labelTTL, export: export, log: l}
}

// CreateArtistInput UserID 非零时挂到已有 artist 角色用户上，否则连同用户一起创建
type CreateArtistInput struct {
	UserID             int64
	FirstName          string
	LastName           string
	Email              string
	Password           string
	Phone              string
	DOB                string
	Gender             string
	Address            string
	FirstReleaseYear   int
	NoOfAlbumsReleased int
}

func (s *ArtistService) Create(ctx context.Context, in CreateArtistInput) (*domain.ArtistView, error) {
	var (
		v   *domain.ArtistView
		err error
	)
	if in.UserID != 0 {
		v, err = s.link(ctx, in)
	} else {
		v, err = s.createWithUser(ctx, in)
	}
	if err != nil {
		return nil, err
	}
	invalidateLabels(ctx, s.cache, s.log)
	return v, nil
}

func (s *ArtistService) link(ctx context.Context, in CreateArtistInput) (*domain.ArtistView, error) {
	u, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %d does not exist", domain.ErrInvalidInput, in.UserID)
	}
	if u.Role != domain.RoleArtist {
		return nil, fmt.Errorf("%w: user %d is not an artist", domain.ErrInvalidInput, in.UserID)
	}
	return s.artists.Create(ctx, in.UserID, in.FirstReleaseYear, in.NoOfAlbumsReleased)
}

func (s *ArtistService) createWithUser(ctx context.Context, in CreateArtistInput) (*domain.ArtistView, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	email := normalizeEmail(in.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}
	dob, err := domain.ParseDate(in.DOB)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return s.artists.CreateWithUser(ctx, domain.NewArtist{
		User: domain.User{
			FirstName:    strings.TrimSpace(in.FirstName),
			LastName:     strings.TrimSpace(in.LastName),
			Email:        email,
			PasswordHash: hash,
			Role:         domain.RoleArtist,
			Phone:        in.Phone,
			DOB:          dob,
			Gender:       in.Gender,
			Address:      in.Address,
		},
		FirstReleaseYear:   in.FirstReleaseYear,
		NoOfAlbumsReleased: in.NoOfAlbumsReleased,
	})
}

func (s *ArtistService) Get(ctx context.Context, id int64) (*domain.ArtistView, error) {
	v, err := s.artists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (s *ArtistService) List(ctx context.Context, p domain.Page) (*ArtistPage, error) {
	rows, total, err := s.artists.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return &ArtistPage{
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalArtist: total,
		TotalPages:  p.TotalPages(total),
		Artists:     rows,
	}, nil
}

func (s *ArtistService) Update(ctx context.Context, id int64, in domain.ArtistUpdate) (*domain.ArtistView, error) {
	v, err := s.artists.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil || in.LastName != nil {
		invalidateLabels(ctx, s.cache, s.log)
	}
	return v, nil
}

// Delete 同时删除其 user 与 music
func (s *ArtistService) Delete(ctx context.Context, id int64) error {
	if err := s.artists.Delete(ctx, id); err != nil {
		return err
	}
	invalidateLabels(ctx, s.cache, s.log)
	s.log.Info("artist deleted with its user", zap.Int64("artist_id", id))
	return nil
}

// Labels 供 music 页面下拉；配置了 Redis 时走缓存
func (s *ArtistService) Labels(ctx context.Context) ([]domain.ArtistLabel, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, LabelsCacheKey, s.labelTTL, s.artists.Labels)
}

// ImportCSV 整个文件一个事务，任一行失败整批回滚
func (s *ArtistService) ImportCSV(ctx context.Context, r io.Reader) ([]domain.ArtistView, error) {
	rows, err := ParseArtistCSV(r)
	if err != nil {
		importRows.WithLabelValues("rejected").Inc()
		return nil, err
	}
	for i := range rows {
		hash, err := utils.HashPassword(rows[i].Password)
		if err != nil {
			importRows.WithLabelValues("rejected").Add(float64(len(rows)))
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidInput, rows[i].Line, err)
		}
		rows[i].Artist.User.PasswordHash = hash
	}
	batch := make([]domain.NewArtist, 0, len(rows))
	for _, row := range rows {
		batch = append(batch, row.Artist)
	}
	out, err := s.artists.BulkCreateWithUsers(ctx, batch)
	if err != nil {
		importRows.WithLabelValues("rejected").Add(float64(len(rows)))
		s.log.Warn("artist csv import rolled back", zap.Int("rows", len(rows)), zap.Error(err))
		return nil, err
	}
	importRows.WithLabelValues("created").Add(float64(len(out)))
	invalidateLabels(ctx, s.cache, s.log)
	s.log.Info("artist csv imported", zap.Int("rows", len(out)))
	return out, nil
}

// ExportCSVTo 全量导出
func (s *ArtistService) ExportCSVTo(ctx context.Context, w io.Writer) (int, error) {
	all, err := s.artists.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := WriteArtistCSV(w, all); err != nil {
		return 0, err
	}
	return len(all), nil
}

// ExportCSV 写到静态目录，返回可下载的 URL
func (s *ArtistService) ExportCSV(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.export.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := "artists_" + uuid.NewString() + ".csv"
	path := filepath.Join(s.export.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	n, err := s.ExportCSVTo(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	s.log.Info("artist csv exported", zap.String("file", path), zap.Int("rows", n))
	return strings.TrimRight(s.export.PublicURL, "/") + "/" + strings.Trim(s.export.URLPrefix, "/") + "/" + name, nil
}

func invalidateLabels(ctx context.Context, c *cache.Cache, l *zap.Logger) {
	if err := c.Invalidate(ctx, LabelsCacheKey); err != nil {
		l.Warn("invalidate artist labels", zap.Error(err))
	}
}
