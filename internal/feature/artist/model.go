package artist

import (
	"time"

	"artist-management/internal/domain"
	"artist-management/internal/feature/user"
)

type ArtistModel struct {
	ID                 int64 `gorm:"primaryKey;autoIncrement"`
	UserID             int64 `gorm:"uniqueIndex;not null"`
	FirstReleaseYear   int   `gorm:"not null"`
	NoOfAlbumsReleased int   `gorm:"not null;default:0"`

	User *user.UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ArtistModel) TableName() string { return "artist" }

// Row artist JOIN users 的扫描目标
type Row struct {
	ID                 int64
	UserID             int64
	FirstReleaseYear   int
	NoOfAlbumsReleased int
	CreatedAt          time.Time
	UpdatedAt          time.Time
	FirstName          string
	LastName           string
	Email              string
	Role               string
	Phone              string
	DOB                time.Time `gorm:"column:dob"`
	Gender             string
	Address            string
	UserCreatedAt      time.Time
	UserUpdatedAt      time.Time
}

// JoinColumns 与 Row 字段一一对应
const JoinColumns = `artist.id, artist.user_id, artist.first_release_year, artist.no_of_albums_released,
	artist.created_at, artist.updated_at,
	users.first_name, users.last_name, users.email, users.role, users.phone, users.dob,
	users.gender, users.address, users.created_at AS user_created_at, users.updated_at AS user_updated_at`

const JoinUsers = "JOIN users ON users.id = artist.user_id"

func (r Row) ToDomain() domain.ArtistView {
	return domain.ArtistView{
		ID:                 r.ID,
		UserID:             r.UserID,
		FirstReleaseYear:   r.FirstReleaseYear,
		NoOfAlbumsReleased: r.NoOfAlbumsReleased,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Email:              r.Email,
		Role:               r.Role,
		Phone:              r.Phone,
		DOB:                r.DOB,
		Gender:             r.Gender,
		Address:            r.Address,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		UserCreatedAt:      r.UserCreatedAt,
		UserUpdatedAt:      r.UserUpdatedAt,
	}
}

func Assignments(in domain.ArtistUpdate) map[string]any {
	set := map[string]any{}
	if in.FirstReleaseYear != nil {
		set["first_release_year"] = *in.FirstReleaseYear
	}
	if in.NoOfAlbumsReleased != nil {
		set["no_of_albums_released"] = *in.NoOfAlbumsReleased
	}
	return set
}
