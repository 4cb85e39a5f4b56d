package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"artist-management/internal/core/auth"
	"artist-management/internal/domain"
	"artist-management/internal/service"
	"artist-management/internal/transport/http/ez"
	mdw "artist-management/internal/transport/http/middleware"
)

// AuthHandler /signup /login /me
type AuthHandler struct {
	users *service.UserService
	limit gin.HandlerFunc // 每 IP 限速，可为 nil
	log   *zap.Logger
}

func NewAuthHandler(users *service.UserService, limit gin.HandlerFunc, l *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, limit: limit, log: l}
}

func (h *AuthHandler) Priority() int { return 10 }

type signupReq struct {
	FirstName string `json:"first_name" binding:"required,max=255"`
	LastName  string `json:"last_name"  binding:"required,max=255"`
	Email     string `json:"email"      binding:"required,email,max=255"`
	Password  string `json:"password"   binding:"required,min=6,max=72"`
	Role      string `json:"role"       binding:"required,oneof=super_admin artist_manager artist"`
	Phone     string `json:"phone"      binding:"max=20"`
	DOB       string `json:"dob"        binding:"required"`
	Gender    string `json:"gender"     binding:"max=10"`
	Address   string `json:"address"    binding:"max=255"`
}

type loginReq struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) MountAPI(public, authed *gin.RouterGroup) {
	var use []gin.HandlerFunc
	if h.limit != nil {
		use = append(use, h.limit)
	}
	pub := ez.New(public, h.log)

	ez.RegisterAction(pub, ez.Action[signupReq, *domain.User]{
		Method: http.MethodPost,
		Path:   "/signup",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Use:    use,
		Handler: func(c *gin.Context, in *signupReq) (*domain.User, error) {
			return h.users.Signup(c.Request.Context(), service.SignupInput{
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Email:     in.Email,
				Password:  in.Password,
				Role:      in.Role,
				Phone:     in.Phone,
				DOB:       in.DOB,
				Gender:    in.Gender,
				Address:   in.Address,
			})
		},
	})

	ez.RegisterAction(pub, ez.Action[loginReq, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Use:    use,
		Handler: func(c *gin.Context, in *loginReq) (*service.LoginResult, error) {
			return h.users.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	ez.RegisterAction(ez.New(authed, h.log), ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Allow:  auth.Authenticated,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.users.Get(c.Request.Context(), mdw.Claims(c).UserID)
		},
	})
}
