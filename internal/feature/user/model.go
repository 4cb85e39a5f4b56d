package user

import (
	"time"

	"artist-management/internal/domain"
)

type UserModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	FirstName string    `gorm:"size:255;not null"`
	LastName  string    `gorm:"size:255;not null"`
	Email     string    `gorm:"uniqueIndex;size:255;not null"`
	Password  string    `gorm:"size:255;not null"`
	Role      string    `gorm:"size:32;not null;default:artist"`
	Phone     string    `gorm:"size:32"`
	DOB       time.Time `gorm:"column:dob;type:date"`
	Gender    string    `gorm:"size:16"`
	Address   string    `gorm:"size:255"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

func FromDomain(u *domain.User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Role:      u.Role,
		Phone:     u.Phone,
		DOB:       u.DOB,
		Gender:    u.Gender,
		Address:   u.Address,
	}
}

func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.Password,
		Role:         m.Role,
		Phone:        m.Phone,
		DOB:          m.DOB,
		Gender:       m.Gender,
		Address:      m.Address,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Assignments 可更新列白名单 → SET 子句
func Assignments(in domain.UserUpdate) map[string]any {
	set := map[string]any{}
	if in.FirstName != nil {
		set["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		set["last_name"] = *in.LastName
	}
	if in.DOB != nil {
		set["dob"] = *in.DOB
	}
	if in.Phone != nil {
		set["phone"] = *in.Phone
	}
	if in.Gender != nil {
		set["gender"] = *in.Gender
	}
	if in.Address != nil {
		set["address"] = *in.Address
	}
	return set
}
