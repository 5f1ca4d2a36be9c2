package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 인증 서비스
type AuthService struct {
	repos  *repository.Repositories
	cfg    config.JWTConfig
	notify *notifier
}

func NewAuthService(repos *repository.Repositories, cfg config.JWTConfig, n *notifier) *AuthService {
	if cfg.AccessTokenExpire <= 0 {
		cfg.AccessTokenExpire = 24 * time.Hour
	}
	return &AuthService{repos: repos, cfg: cfg, notify: n}
}

// SignupRequest 회원가입 요청
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"max=100"`
}

// SigninRequest 로그인 요청
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Session is a signed token and the user it belongs to.
type Session struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *entity.User `json:"user"`
}

// Signup registers a user. The very first account becomes an administrator.
// The user count and the insert run in one transaction.
func (s *AuthService) Signup(ctx context.Context, req *SignupRequest) (*entity.User, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var user *entity.User
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		count, err := tx.User.Count(ctx)
		if err != nil {
			return err
		}
		role := entity.RoleUser
		if count == 0 {
			role = entity.RoleAdmin
		}
		user, err = createUser(ctx, tx.User, req.Email, hash, req.FullName, role)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notify.created(ctx, entity.CollectionUsers, user.ID)
	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// createUser inserts an account, reporting an existing email as ErrEmailTaken.
func createUser(ctx context.Context, repo *repository.UserRepository, email, hash, fullName, role string) (*entity.User, error) {
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	user := &entity.User{
		ID:           entity.NewID(),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Signin checks the password and issues an access token.
func (s *AuthService) Signin(ctx context.Context, req *SigninRequest) (*Session, error) {
	user, err := s.repos.User.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.repos.User.Save(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user, now)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.AccessTokenExpire.Seconds()),
		User:        user,
	}, nil
}

// Current returns the user behind an authenticated request.
func (s *AuthService) Current(ctx context.Context, userID string) (*entity.User, error) {
	return s.repos.User.FindByID(ctx, userID)
}

func (s *AuthService) issueToken(user *entity.User, now time.Time) (string, error) {
	claims := middleware.JWTClaims{
		UserID: user.ID,
		Name:   user.FullName,
		Email:  user.Email,
		Roles:  []string{user.Role},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpire)),
		},
	}
	token, err := middleware.SignToken(s.cfg.Secret, claims)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// UserService 사용자 관리 (관리자)
type UserService struct {
	userRepo *repository.UserRepository
	notify   *notifier
}

func NewUserService(userRepo *repository.UserRepository, n *notifier) *UserService {
	return &UserService{userRepo: userRepo, notify: n}
}

// CreateUserRequest 관리자 사용자 생성 요청
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"max=100"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
}

// Create adds an account with an explicit role.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*entity.User, error) {
	if err := oneOf("role", req.Role, entity.RoleAdmin, entity.RoleUser); err != nil {
		return nil, err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := createUser(ctx, s.userRepo, req.Email, hash, req.FullName, req.Role)
	if err != nil {
		return nil, err
	}
	s.notify.created(ctx, entity.CollectionUsers, user.ID)
	return user, nil
}

func (s *UserService) List(ctx context.Context, q ListQuery) ([]entity.User, int64, error) {
	return s.userRepo.List(ctx, q.params())
}

// UpdateUserRequest 사용자 수정 요청
type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin user"`
}

func (s *UserService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionUsers, user.ID)
	return user, nil
}

// Delete removes a user. Administrators cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return invalid("id", "자기 자신은 삭제할 수 없습니다")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.deleted(ctx, entity.CollectionUsers, id)
	return nil
}
