package domain

import (
	"context"
	"time"
)

const (
	RoleSuperAdmin    = "super_admin"
	RoleArtistManager = "artist_manager"
	RoleArtist        = "artist"
)

// ValidRole 三种角色之外的值一律拒绝
func ValidRole(r string) bool {
	switch r {
	case RoleSuperAdmin, RoleArtistManager, RoleArtist:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone"`
	DOB          time.Time `json:"dob"`
	Gender       string    `json:"gender"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserUpdate 只包含允许修改的字段；nil 表示不改。email/role 创建后不可变。
type UserUpdate struct {
	FirstName *string
	LastName  *string
	DOB       *time.Time
	Phone     *string
	Gender    *string
	Address   *string
}

func (u UserUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.DOB == nil &&
		u.Phone == nil && u.Gender == nil && u.Address == nil
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, p Page) ([]User, int64, error)
	Update(ctx context.Context, id int64, in UserUpdate) (*User, error)
	Delete(ctx context.Context, id int64) error
}
