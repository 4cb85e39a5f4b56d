package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"artist-management/internal/core/auth"
	"artist-management/internal/domain"
	"artist-management/internal/service"
	"artist-management/internal/transport/http/ez"
)

// MusicHandler 三种角色都可读写，删除只给 super_admin
type MusicHandler struct {
	music *service.MusicService
	log   *zap.Logger
}

func NewMusicHandler(music *service.MusicService, l *zap.Logger) *MusicHandler {
	return &MusicHandler{music: music, log: l}
}

type createMusicReq struct {
	ArtistID  int64  `json:"artist_id"  binding:"required,gt=0"`
	Title     string `json:"title"      binding:"required,max=255"`
	AlbumName string `json:"album_name" binding:"max=255"`
	Genre     string `json:"genre"      binding:"max=50"`
}

type updateMusicReq struct {
	ArtistID  *int64  `json:"artist_id"  binding:"omitempty,gt=0"`
	Title     *string `json:"title"      binding:"omitempty,max=255"`
	AlbumName *string `json:"album_name" binding:"omitempty,max=255"`
	Genre     *string `json:"genre"      binding:"omitempty,max=50"`
}

func (h *MusicHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed, h.log)
	everyone := auth.AnyOf(auth.IsSuperAdmin, auth.IsManager, auth.IsArtist)

	ez.RegisterAction(e, ez.Action[ez.PageQuery, *service.MusicPage]{
		Method: http.MethodGet,
		Path:   "/music",
		Binder: ez.BindQuery,
		Allow:  everyone,
		Handler: func(c *gin.Context, in *ez.PageQuery) (*service.MusicPage, error) {
			p, err := in.ToPage()
			if err != nil {
				return nil, err
			}
			return h.music.List(c.Request.Context(), p)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *service.PageData]{
		Method: http.MethodGet,
		Path:   "/music/page-data",
		Binder: ez.BindNone,
		Allow:  everyone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.PageData, error) {
			return h.music.PageData(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[createMusicReq, *domain.Music]{
		Method: http.MethodPost,
		Path:   "/music",
		Binder: ez.BindJSON,
		Allow:  everyone,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createMusicReq) (*domain.Music, error) {
			return h.music.Create(c.Request.Context(), service.CreateMusicInput{
				ArtistID:  in.ArtistID,
				Title:     in.Title,
				AlbumName: in.AlbumName,
				Genre:     in.Genre,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Music]{
		Method: http.MethodGet,
		Path:   "/music/:id",
		Binder: ez.BindNone,
		Allow:  everyone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Music, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.music.Get(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[updateMusicReq, *domain.Music]{
		Method: http.MethodPut,
		Path:   "/music/:id",
		Binder: ez.BindJSON,
		Allow:  everyone,
		Handler: func(c *gin.Context, in *updateMusicReq) (*domain.Music, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.music.Update(c.Request.Context(), id, domain.MusicUpdate{
				ArtistID:  in.ArtistID,
				Title:     in.Title,
				AlbumName: in.AlbumName,
				Genre:     in.Genre,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/music/:id",
		Binder: ez.BindNone,
		Allow:  auth.IsSuperAdmin,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.music.Delete(c.Request.Context(), id)
		},
	})
}
