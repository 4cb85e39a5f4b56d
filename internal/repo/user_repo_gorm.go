package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"artist-management/internal/domain"
	"artist-management/internal/feature/artist"
	"artist-management/internal/feature/music"
	"artist-management/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	*u = *m.ToDomain()
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return findUser(r.db.WithContext(ctx), "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findUser(r.db.WithContext(ctx), "email = ?", email)
}

func (r *UserRepo) List(ctx context.Context, p domain.Page) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&user.UserModel{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []user.UserModel
	if err := r.db.WithContext(ctx).Order("id DESC").Offset(p.Offset()).Limit(p.Limit()).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.User, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, total, nil
}

// Update 只改白名单里被设置的列；id 不存在 → ErrNotFound
func (r *UserRepo) Update(ctx context.Context, id int64, in domain.UserUpdate) (*domain.User, error) {
	var out *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := findUser(tx, "id = ?", id)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		if set := user.Assignments(in); len(set) > 0 {
			if err := tx.Model(&user.UserModel{}).Where("id = ?", id).Updates(set).Error; err != nil {
				return translate(err)
			}
		}
		out, err = findUser(tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete 硬删除；若该用户背后挂着 artist，一并删除其 music 与 artist 行
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteUserGraph(tx, id)
	})
}

func findUser(tx *gorm.DB, cond string, arg any) (*domain.User, error) {
	var m user.UserModel
	err := tx.Where(cond, arg).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// deleteUserGraph 两实体删除协议：music → artist → user，须在事务内调用。
// 不依赖库表的 ON DELETE CASCADE。
func deleteUserGraph(tx *gorm.DB, userID int64) error {
	var artistIDs []int64
	if err := tx.Model(&artist.ArtistModel{}).Where("user_id = ?", userID).Pluck("id", &artistIDs).Error; err != nil {
		return err
	}
	if len(artistIDs) > 0 {
		if err := tx.Where("artist_id IN ?", artistIDs).Delete(&music.MusicModel{}).Error; err != nil {
			return fmt.Errorf("delete music: %w", err)
		}
		if err := tx.Where("id IN ?", artistIDs).Delete(&artist.ArtistModel{}).Error; err != nil {
			return fmt.Errorf("delete artist: %w", err)
		}
	}
	res := tx.Where("id = ?", userID).Delete(&user.UserModel{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
