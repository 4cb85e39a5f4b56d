package service

import "artist-management/internal/domain"

type UserPage struct {
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalUsers int64         `json:"total_users"`
	TotalPages int           `json:"total_pages"`
	Users      []domain.User `json:"users"`
}

type ArtistPage struct {
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalArtist int64               `json:"total_artist"`
	TotalPages  int                 `json:"total_pages"`
	Artists     []domain.ArtistView `json:"artists"`
}

type MusicPage struct {
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalMusic int64          `json:"total_music"`
	TotalPages int            `json:"total_pages"`
	Music      []domain.Music `json:"music"`
}
