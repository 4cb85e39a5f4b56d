package domain

import (
	"context"
	"time"
)

// ArtistView artist 行与其 user 行拍平后的输出结构
type ArtistView struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	FirstReleaseYear   int       `json:"first_release_year"`
	NoOfAlbumsReleased int       `json:"no_of_albums_released"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	Phone              string    `json:"phone"`
	DOB                time.Time `json:"dob"`
	Gender             string    `json:"gender"`
	Address            string    `json:"address"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	UserCreatedAt      time.Time `json:"user_created_at"`
	UserUpdatedAt      time.Time `json:"user_updated_at"`
}

// NewArtist 一次性创建 user(role=artist) + artist
type NewArtist struct {
	User               User
	FirstReleaseYear   int
	NoOfAlbumsReleased int
}

// ArtistUpdate artist 表字段与 user 表字段混在一起，由仓储拆分。
// user_id 不可改（不支持把 artist 挂到别的 user 上）。
type ArtistUpdate struct {
	FirstReleaseYear   *int
	NoOfAlbumsReleased *int

	FirstName *string
	LastName  *string
	DOB       *time.Time
	Phone     *string
	Gender    *string
	Address   *string
}

func (u ArtistUpdate) Empty() bool {
	return u.FirstReleaseYear == nil && u.NoOfAlbumsReleased == nil && u.UserPart().Empty()
}

// UserPart 取出落在 users 表上的部分
func (u ArtistUpdate) UserPart() UserUpdate {
	return UserUpdate{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		DOB:       u.DOB,
		Phone:     u.Phone,
		Gender:    u.Gender,
		Address:   u.Address,
	}
}

type ArtistLabel struct {
	ArtistID int64  `json:"artist_id"`
	Name     string `json:"name"`
}

type ArtistRepository interface {
	Create(ctx context.Context, userID int64, firstReleaseYear, albums int) (*ArtistView, error)
	CreateWithUser(ctx context.Context, in NewArtist) (*ArtistView, error)
	BulkCreateWithUsers(ctx context.Context, rows []NewArtist) ([]ArtistView, error)
	FindByID(ctx context.Context, id int64) (*ArtistView, error)
	List(ctx context.Context, p Page) ([]ArtistView, int64, error)
	ListAll(ctx context.Context) ([]ArtistView, error)
	Update(ctx context.Context, id int64, in ArtistUpdate) (*ArtistView, error)
	Delete(ctx context.Context, id int64) error
	Labels(ctx context.Context) ([]ArtistLabel, error)
}
