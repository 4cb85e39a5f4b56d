package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"artist-management/internal/domain"
	"artist-management/internal/feature/artist"
	"artist-management/internal/feature/user"
)

type ArtistRepo struct{ db *gorm.DB }

func NewArtistRepo(db *gorm.DB) *ArtistRepo { return &ArtistRepo{db: db} }

// Create 把 artist 挂到已有 user 上；这一层不校验 user 的角色
func (r *ArtistRepo) Create(ctx context.Context, userID int64, firstReleaseYear, albums int) (*domain.ArtistView, error) {
	var out *domain.ArtistView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := findUser(tx, "id = ?", userID)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("%w: user %d does not exist", domain.ErrInvalidInput, userID)
		}
		var linked int64
		if err := tx.Model(&artist.ArtistModel{}).Where("user_id = ?", userID).Count(&linked).Error; err != nil {
			return err
		}
		if linked > 0 {
			return fmt.Errorf("%w: user %d already has an artist profile", domain.ErrInvalidInput, userID)
		}
		m := &artist.ArtistModel{UserID: userID, FirstReleaseYear: firstReleaseYear, NoOfAlbumsReleased: albums}
		if err := tx.Create(m).Error; err != nil {
			return translate(err)
		}
		out, err = findView(tx, m.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateWithUser user(role=artist) 与 artist 同一事务写入
func (r *ArtistRepo) CreateWithUser(ctx context.Context, in domain.NewArtist) (*domain.ArtistView, error) {
	var out *domain.ArtistView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := createWithUser(tx, in)
		out = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkCreateWithUsers 整批一个事务，任何一行失败整批回滚
func (r *ArtistRepo) BulkCreateWithUsers(ctx context.Context, rows []domain.NewArtist) ([]domain.ArtistView, error) {
	out := make([]domain.ArtistView, 0, len(rows))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			v, err := createWithUser(tx, rows[i])
			if err != nil {
				return fmt.Errorf("row %d (%s): %w", i+1, rows[i].User.Email, err)
			}
			out = append(out, *v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ArtistRepo) FindByID(ctx context.Context, id int64) (*domain.ArtistView, error) {
	return findView(r.db.WithContext(ctx), id)
}

func (r *ArtistRepo) List(ctx context.Context, p domain.Page) ([]domain.ArtistView, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&artist.ArtistModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []artist.Row
	err := joined(r.db.WithContext(ctx)).
		Order("artist.id DESC").
		Offset(p.Offset()).Limit(p.Limit()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return toViews(rows), total, nil
}

// ListAll 不分页，只给 CSV 导出用
func (r *ArtistRepo) ListAll(ctx context.Context) ([]domain.ArtistView, error) {
	var rows []artist.Row
	if err := joined(r.db.WithContext(ctx)).Order("artist.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toViews(rows), nil
}

// Update 拆成 artist 表与 users 表两条 UPDATE，同一事务内完成后回读
func (r *ArtistRepo) Update(ctx context.Context, id int64, in domain.ArtistUpdate) (*domain.ArtistView, error) {
	var out *domain.ArtistView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userID, err := linkedUserID(tx, id)
		if err != nil {
			return err
		}
		if set := artist.Assignments(in); len(set) > 0 {
			if err := tx.Model(&artist.ArtistModel{}).Where("id = ?", id).Updates(set).Error; err != nil {
				return translate(err)
			}
		}
		if set := user.Assignments(in.UserPart()); len(set) > 0 {
			if err := tx.Model(&user.UserModel{}).Where("id = ?", userID).Updates(set).Error; err != nil {
				return translate(err)
			}
		}
		out, err = findView(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete 删 artist 即删其 user（连同 music），登录能力随之消失
func (r *ArtistRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userID, err := linkedUserID(tx, id)
		if err != nil {
			return err
		}
		return deleteUserGraph(tx, userID)
	})
}

func (r *ArtistRepo) Labels(ctx context.Context) ([]domain.ArtistLabel, error) {
	var rows []labelRow
	err := r.db.WithContext(ctx).Table("artist").
		Select("artist.id AS artist_id, users.first_name, users.last_name").
		Joins(artist.JoinUsers).
		Order("artist.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.ArtistLabel, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ArtistLabel{
			ArtistID: row.ArtistID,
			Name:     strings.TrimSpace(row.FirstName + " " + row.LastName),
		})
	}
	return out, nil
}

type labelRow struct {
	ArtistID  int64
	FirstName string
	LastName  string
}

func createWithUser(tx *gorm.DB, in domain.NewArtist) (*domain.ArtistView, error) {
	u := user.FromDomain(&in.User)
	u.ID = 0
	u.Role = domain.RoleArtist
	if err := tx.Create(u).Error; err != nil {
		return nil, translate(err)
	}
	m := &artist.ArtistModel{
		UserID:             u.ID,
		FirstReleaseYear:   in.FirstReleaseYear,
		NoOfAlbumsReleased: in.NoOfAlbumsReleased,
	}
	if err := tx.Create(m).Error; err != nil {
		return nil, translate(err)
	}
	return findView(tx, m.ID)
}

func joined(tx *gorm.DB) *gorm.DB {
	return tx.Table("artist").Select(artist.JoinColumns).Joins(artist.JoinUsers)
}

func findView(tx *gorm.DB, id int64) (*domain.ArtistView, error) {
	var rows []artist.Row
	if err := joined(tx).Where("artist.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	v := rows[0].ToDomain()
	return &v, nil
}

func linkedUserID(tx *gorm.DB, artistID int64) (int64, error) {
	var ids []int64
	if err := tx.Model(&artist.ArtistModel{}).Where("id = ?", artistID).Limit(1).Pluck("user_id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, domain.ErrNotFound
	}
	return ids[0], nil
}

func toViews(rows []artist.Row) []domain.ArtistView {
	out := make([]domain.ArtistView, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToDomain())
	}
	return out
}
