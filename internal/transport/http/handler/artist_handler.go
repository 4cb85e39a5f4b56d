package handler

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"artist-management/internal/core/auth"
	"artist-management/internal/domain"
	"artist-management/internal/service"
	"artist-management/internal/transport/http/ez"
)

// ArtistHandler artist CRUD + CSV 导入导出，super_admin / artist_manager
type ArtistHandler struct {
	artists *service.ArtistService
	music   *service.MusicService
	log     *zap.Logger
}

func NewArtistHandler(artists *service.ArtistService, music *service.MusicService, l *zap.Logger) *ArtistHandler {
	return &ArtistHandler{artists: artists, music: music, log: l}
}

type createArtistReq struct {
	UserID             int64  `json:"user_id"               binding:"gte=0"`
	FirstName          string `json:"first_name"            binding:"max=255"`
	LastName           string `json:"last_name"             binding:"max=255"`
	Email              string `json:"email"                 binding:"omitempty,email,max=255"`
	Password           string `json:"password"              binding:"omitempty,min=6,max=72"`
	Phone              string `json:"phone"                 binding:"max=20"`
	DOB                string `json:"dob"`
	Gender             string `json:"gender"                binding:"max=10"`
	Address            string `json:"address"               binding:"max=255"`
	FirstReleaseYear   int    `json:"first_release_year"    binding:"gte=0"`
	NoOfAlbumsReleased int    `json:"no_of_albums_released" binding:"gte=0"`
}

// user_id 不在其中：不支持把 artist 改挂到别的 user
type updateArtistReq struct {
	FirstReleaseYear   *int    `json:"first_release_year"    binding:"omitempty,gte=0"`
	NoOfAlbumsReleased *int    `json:"no_of_albums_released" binding:"omitempty,gte=0"`
	FirstName          *string `json:"first_name"            binding:"omitempty,max=255"`
	LastName           *string `json:"last_name"             binding:"omitempty,max=255"`
	DOB                *string `json:"dob"`
	Phone              *string `json:"phone"                 binding:"omitempty,max=20"`
	Gender             *string `json:"gender"                binding:"omitempty,max=10"`
	Address            *string `json:"address"               binding:"omitempty,max=255"`
}

type importResult struct {
	Count   int                 `json:"count"`
	Artists []domain.ArtistView `json:"artists"`
}

type exportResult struct {
	URL string `json:"url"`
}

func (h *ArtistHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed, h.log)
	staff := auth.AnyOf(auth.IsSuperAdmin, auth.IsManager)

	ez.RegisterAction(e, ez.Action[ez.PageQuery, *service.ArtistPage]{
		Method: http.MethodGet,
		Path:   "/artist",
		Binder: ez.BindQuery,
		Allow:  staff,
		Handler: func(c *gin.Context, in *ez.PageQuery) (*service.ArtistPage, error) {
			p, err := in.ToPage()
			if err != nil {
				return nil, err
			}
			return h.artists.List(c.Request.Context(), p)
		},
	})

	ez.RegisterAction(e, ez.Action[createArtistReq, *domain.ArtistView]{
		Method: http.MethodPost,
		Path:   "/artist",
		Binder: ez.BindJSON,
		Allow:  staff,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createArtistReq) (*domain.ArtistView, error) {
			return h.artists.Create(c.Request.Context(), service.CreateArtistInput{
				UserID:             in.UserID,
				FirstName:          in.FirstName,
				LastName:           in.LastName,
				Email:              in.Email,
				Password:           in.Password,
				Phone:              in.Phone,
				DOB:                in.DOB,
				Gender:             in.Gender,
				Address:            in.Address,
				FirstReleaseYear:   in.FirstReleaseYear,
				NoOfAlbumsReleased: in.NoOfAlbumsReleased,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.ArtistView]{
		Method: http.MethodGet,
		Path:   "/artist/:id",
		Binder: ez.BindNone,
		Allow:  staff,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.ArtistView, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.artists.Get(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[updateArtistReq, *domain.ArtistView]{
		Method: http.MethodPut,
		Path:   "/artist/:id",
		Binder: ez.BindJSON,
		Allow:  staff,
		Handler: func(c *gin.Context, in *updateArtistReq) (*domain.ArtistView, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			dob, err := parseOptionalDate(in.DOB)
			if err != nil {
				return nil, err
			}
			return h.artists.Update(c.Request.Context(), id, domain.ArtistUpdate{
				FirstReleaseYear:   in.FirstReleaseYear,
				NoOfAlbumsReleased: in.NoOfAlbumsReleased,
				FirstName:          in.FirstName,
				LastName:           in.LastName,
				DOB:                dob,
				Phone:              in.Phone,
				Gender:             in.Gender,
				Address:            in.Address,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/artist/:id",
		Binder: ez.BindNone,
		Allow:  staff,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.artists.Delete(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[ez.PageQuery, *service.MusicPage]{
		Method: http.MethodGet,
		Path:   "/artist/:id/music",
		Binder: ez.BindQuery,
		Allow:  auth.AnyOf(auth.IsSuperAdmin, auth.IsManager, auth.IsArtist),
		Handler: func(c *gin.Context, in *ez.PageQuery) (*service.MusicPage, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			p, err := in.ToPage()
			if err != nil {
				return nil, err
			}
			return h.music.ListByArtist(c.Request.Context(), id, p)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *importResult]{
		Method: http.MethodPost,
		Path:   "/artist/upload-csv",
		Binder: ez.BindNone,
		Allow:  staff,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *struct{}) (*importResult, error) {
			fh, err := c.FormFile("file")
			if ez.TooLarge(err) {
				return nil, err
			}
			if err != nil {
				return nil, fmt.Errorf("%w: multipart field \"file\" is required", domain.ErrInvalidInput)
			}
			if !isCSV(fh) {
				return nil, domain.ErrBadFileType
			}
			f, err := fh.Open()
			if err != nil {
				return nil, ez.Internal("open upload failed", err)
			}
			defer f.Close()
			out, err := h.artists.ImportCSV(c.Request.Context(), f)
			if err != nil {
				return nil, err
			}
			return &importResult{Count: len(out), Artists: out}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *exportResult]{
		Method: http.MethodGet,
		Path:   "/artists/download",
		Binder: ez.BindNone,
		Allow:  staff,
		Handler: func(c *gin.Context, _ *struct{}) (*exportResult, error) {
			url, err := h.artists.ExportCSV(c.Request.Context())
			if err != nil {
				return nil, err
			}
			return &exportResult{URL: url}, nil
		},
	})
}

var csvContentTypes = map[string]bool{
	"":                         true,
	"text/csv":                 true,
	"application/csv":          true,
	"text/plain":               true,
	"application/vnd.ms-excel": true,
	"application/octet-stream": true,
}

// isCSV 扩展名必须是 .csv，Content-Type 若给出需是常见 CSV 类型
func isCSV(fh *multipart.FileHeader) bool {
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		return false
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return csvContentTypes[strings.ToLower(mt)]
}
