package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"artist-management/internal/core/auth"
	"artist-management/internal/domain"
	"artist-management/internal/service"
	"artist-management/internal/transport/http/ez"
)

// UserHandler 用户管理，仅 super_admin
type UserHandler struct {
	users *service.UserService
	log   *zap.Logger
}

func NewUserHandler(users *service.UserService, l *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: l}
}

type updateUserReq struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=255"`
	LastName  *string `json:"last_name"  binding:"omitempty,max=255"`
	DOB       *string `json:"dob"`
	Phone     *string `json:"phone"      binding:"omitempty,max=20"`
	Gender    *string `json:"gender"     binding:"omitempty,max=10"`
	Address   *string `json:"address"    binding:"omitempty,max=255"`
}

func (r updateUserReq) toDomain() (domain.UserUpdate, error) {
	dob, err := parseOptionalDate(r.DOB)
	if err != nil {
		return domain.UserUpdate{}, err
	}
	return domain.UserUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		DOB:       dob,
		Phone:     r.Phone,
		Gender:    r.Gender,
		Address:   r.Address,
	}, nil
}

func (h *UserHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed, h.log)
	allow := auth.Policy(auth.IsSuperAdmin)

	ez.RegisterAction(e, ez.Action[ez.PageQuery, *service.UserPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Allow:  allow,
		Handler: func(c *gin.Context, in *ez.PageQuery) (*service.UserPage, error) {
			p, err := in.ToPage()
			if err != nil {
				return nil, err
			}
			return h.users.List(c.Request.Context(), p)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Allow:  allow,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.users.Get(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[updateUserReq, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Allow:  allow,
		Handler: func(c *gin.Context, in *updateUserReq) (*domain.User, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			upd, err := in.toDomain()
			if err != nil {
				return nil, err
			}
			return h.users.Update(c.Request.Context(), id, upd)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Allow:  allow,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.users.Delete(c.Request.Context(), id)
		},
	})
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := domain.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
