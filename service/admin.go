package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"catalog-management/apperr"
	"catalog-management/auth"
	models "catalog-management/model"
	"catalog-management/store"
)

const badCredentials = "invalid username or password"

// Login checks the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	if err := s.checkStruct(req); err != nil {
		return models.LoginResponse{}, err
	}
	if s.tokens == nil {
		return models.LoginResponse{}, apperr.Wrap(errors.New("token manager not configured"))
	}
	admin, err := s.store.GetAdmin(ctx, req.Username)
	if errors.Is(err, store.ErrNotFound) {
		return models.LoginResponse{}, apperr.UnauthorizedErr(badCredentials)
	}
	if err != nil {
		return models.LoginResponse{}, storeErr(err, "admin")
	}
	if !auth.CheckPassword(admin.PasswordHash, req.Password) {
		zap.L().Info("login rejected", zap.String("username", req.Username))
		return models.LoginResponse{}, apperr.UnauthorizedErr(badCredentials)
	}
	token, exp, err := s.tokens.Issue(admin.Username)
	if err != nil {
		return models.LoginResponse{}, apperr.Wrap(err)
	}
	return models.LoginResponse{Token: token, ExpiresAt: exp}, nil
}

func (s *Service) ValidateToken(token string) (*auth.Claims, error) {
	if s.tokens == nil {
		return nil, apperr.UnauthorizedErr("authentication disabled")
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, &apperr.AppError{Kind: apperr.Unauthorized, PublicMsg: "invalid or expired token", Err: err}
	}
	return claims, nil
}

func (s *Service) CreateAdmin(ctx context.Context, username, password string) (models.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.AdminUser{}, apperr.InvalidErr("username and password are required", nil)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return models.AdminUser{}, apperr.Wrap(err)
	}
	row, err := s.store.CreateAdmin(ctx, username, hash)
	if err != nil {
		return models.AdminUser{}, storeErr(err, "admin")
	}
	return models.AdminUser{ID: row.ID, Username: row.Username, CreatedAt: row.CreatedAt}, nil
}

func (s *Service) SetAdminPassword(ctx context.Context, username, password string) error {
	if password == "" {
		return apperr.InvalidErr("password is required", nil)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperr.Wrap(err)
	}
	return storeErr(s.store.SetAdminPassword(ctx, username, hash), "admin")
}

// EnsureBootstrapAdmin creates the configured admin when no admin exists yet.
// It reports whether one was created.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	n, err := s.store.CountAdmins(ctx)
	if err != nil {
		return false, storeErr(err, "admin")
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.CreateAdmin(ctx, username, password); err != nil {
		return false, err
	}
	zap.L().Info("bootstrap admin created", zap.String("username", username))
	return true, nil
}
