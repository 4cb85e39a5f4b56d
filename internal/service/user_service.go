package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"artist-management/internal/core/cache"
	"artist-management/internal/domain"
	"artist-management/pkg/utils"
)

// TokenIssuer 由 auth.JWTer 实现
type TokenIssuer interface {
	Issue(id int64, email, role string) (string, error)
}

type UserService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	cache  *cache.Cache
	log    *zap.Logger
}

func NewUserService(users domain.UserRepository, tokens TokenIssuer, c *cache.Cache, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{users: users, tokens: tokens, cache: c, log: l}
}

type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Phone     string
	DOB       string
	Gender    string
	Address   string
}

type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if !domain.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
	}
	email := normalizeEmail(in.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}
	dob, err := domain.ParseDate(in.DOB)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	u := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		Phone:        in.Phone,
		DOB:          dob,
		Gender:       in.Gender,
		Address:      in.Address,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user signed up", zap.Int64("user_id", u.ID), zap.String("role", u.Role))
	return u, nil
}

// Login 邮箱不存在与密码错误返回同一个错误
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrBadCredentials
	}
	tok, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{AccessToken: tok, TokenType: "bearer", User: u}, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, p domain.Page) (*UserPage, error) {
	rows, total, err := s.users.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return &UserPage{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalUsers: total,
		TotalPages: p.TotalPages(total),
		Users:      rows,
	}, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in domain.UserUpdate) (*domain.User, error) {
	return s.users.Update(ctx, id, in)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	// 被删的可能是 artist 用户
	invalidateLabels(ctx, s.cache, s.log)
	s.log.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }
