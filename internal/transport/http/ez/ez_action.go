package ez

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"artist-management/internal/core/auth"
	"artist-management/internal/domain"
	mdw "artist-management/internal/transport/http/middleware"
	resp "artist-management/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.FormFile 取
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method string // "GET" | "POST" | "PUT" | "DELETE"
	Path   string // 例："/artist/:id"
	Binder Binder
	// Allow 为 nil 表示公开接口；否则必须登录且满足策略
	Allow auth.Policy
	// Status 成功时的状态码，默认 200；204 不写 body
	Status  int
	Use     []gin.HandlerFunc
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Allow != nil {
			claims := mdw.Claims(c)
			if claims == nil {
				resp.Abort(c, resp.CodeUnauthorized, domain.ErrUnauthenticated.Error())
				return
			}
			if !a.Allow(claims) {
				resp.Abort(c, resp.CodeForbidden, domain.ErrForbidden.Error())
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			if TooLarge(bindErr) {
				resp.Abort(c, resp.CodeTooLarge, "request body too large")
				return
			}
			resp.Abort(c, resp.CodeBadRequest, bindErr.Error())
			return
		}

		// 3) 执行
		out, err := a.Handler(c, &in)

		// 4) 统一错误映射
		if err != nil {
			code, msg := e.mapErr(c, err)
			resp.Abort(c, code, msg)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		if status == http.StatusNoContent {
			c.Status(status)
			return
		}
		c.JSON(status, resp.OK(out))
	}

	handlers := append(append([]gin.HandlerFunc(nil), a.Use...), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, handlers...)
	case http.MethodPut:
		e.g.PUT(a.Path, handlers...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, handlers...)
	default: // 默认 POST
		e.g.POST(a.Path, handlers...)
	}
}

func (e EZ) mapErr(c *gin.Context, err error) (int, string) {
	var ae *AErr
	switch {
	case TooLarge(err):
		return resp.CodeTooLarge, "request body too large"
	case errors.As(err, &ae):
		if ae.Code >= resp.CodeServerError {
			e.log.Error("action failed", zap.String("path", c.FullPath()), zap.Error(err))
		}
		return ae.Code, ae.Error()
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidToken):
		return resp.CodeUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return resp.CodeForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, err.Error()
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrBadFileType),
		errors.Is(err, domain.ErrBadCredentials):
		return resp.CodeBadRequest, err.Error()
	}
	// 未知错误不外泄细节
	e.log.Error("action failed",
		zap.String("rid", mdw.RequestIDFrom(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	return resp.CodeServerError, "internal error"
}

// TooLarge 请求体超过 MaxBodyBytes
func TooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// ParamID 路径上的正整数 id
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, name)
	}
	return id, nil
}

// PageQuery 分页参数，通过 BindQuery 绑定
type PageQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=10"`
}

func (q PageQuery) ToPage() (domain.Page, error) { return domain.NewPage(q.Page, q.PageSize) }
