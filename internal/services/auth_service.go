package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adconnect/backend/internal/apperr"
	"github.com/adconnect/backend/internal/auth"
	"github.com/adconnect/backend/internal/models"
	"github.com/adconnect/backend/internal/repositories"
	"github.com/adconnect/backend/internal/validation"
	"go.uber.org/zap"
)

const errBadCredentials = "invalid email or password"

type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=2,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthOptions struct {
	JWTSecret        string
	JWTExpiration    time.Duration
	Hasher           auth.PasswordHasher
	AllowAdminSignup bool
}

type AuthService struct {
	store    Store
	denylist auth.Denylist
	opts     AuthOptions
	log      *zap.Logger
}

func NewAuthService(store Store, denylist auth.Denylist, opts AuthOptions, log *zap.Logger) *AuthService {
	return &AuthService{store: store, denylist: denylist, opts: opts, log: log}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		const msg = "must be one of: admin, sponsor, influencer"
		return nil, apperr.Validation("role "+msg, map[string]string{"role": msg})
	}
	if role == models.RoleAdmin && !s.opts.AllowAdminSignup {
		return nil, apperr.Forbidden("admin accounts cannot be self-registered")
	}

	hash, err := s.opts.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Role:         role,
	}

	err = s.store.WithTx(ctx, func(r Repos) error {
		usernameTaken, emailTaken, err := r.Users.Exists(ctx, u.Username, u.Email)
		if err != nil {
			return fmt.Errorf("check user: %w", err)
		}
		if usernameTaken {
			return apperr.Conflict("username already taken")
		}
		if emailTaken {
			return apperr.Conflict("email already registered")
		}

		if err := r.Users.Create(ctx, u); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return apperr.Conflict("username or email already taken")
			}
			return fmt.Errorf("create user: %w", err)
		}
		return audit(ctx, r, models.Actor{UserID: u.ID, Role: u.Role}, models.ActionUserRegistered,
			models.EntityUser, u.ID, map[string]any{"username": u.Username})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", u.ID.String()), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.store.Repos().Users.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Unauthenticated(errBadCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := s.opts.Hasher.Compare(u.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperr.Unauthenticated(errBadCredentials)
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}

	token, err := auth.GenerateJWT(s.opts.JWTSecret, u.ID, u.Role, s.opts.JWTExpiration)
	if err != nil {
		return nil, fmt.Errorf("generate jwt: %w", err)
	}
	return &Session{Token: token, User: u}, nil
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperr.Unauthenticated("missing token")
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	u, err := s.store.Repos().Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}
