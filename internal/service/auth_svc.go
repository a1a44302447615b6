package service

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/repository"
	"github.com/vidora/vidora-go/pkg/password"
	"github.com/vidora/vidora-go/pkg/token"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)

type AuthService struct {
	users      *repository.UserRepo
	tokens     *token.Manager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(users *repository.UserRepo, tokens *token.Manager, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates an account. Avatar/cover assets are uploaded by the
// handler before this runs and arrive as stored references.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, avatar, cover *Asset) (*model.AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if !usernameRe.MatchString(username) {
		return nil, apperr.Invalid("username must be 3-32 characters of a-z, 0-9 or _")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Invalid("invalid email address")
	}

	if len(req.Password) < 8 {
		return nil, apperr.Invalid("password must be at least 8 characters")
	}
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, apperr.Invalid("%s", err.Error())
	}

	u := &model.User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
	}
	if avatar != nil {
		u.AvatarURL, u.AvatarKey = avatar.URL, avatar.Key
	}
	if cover != nil {
		u.CoverURL, u.CoverKey = cover.URL, cover.Key
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, created)
}

// Login verifies credentials against either username or email.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))
	if identifier == "" || req.Password == "" {
		return nil, apperr.Invalid("identifier and password are required")
	}

	u, err := s.users.FindByIdentifier(ctx, identifier)
	if apperr.IsKind(err, apperr.KindNotFound) {
		// Same response as a bad password; do not reveal which half failed.
		return nil, apperr.Unauthenticated("invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if !password.Verify(u.PasswordHash, req.Password) {
		return nil, apperr.Unauthenticated("invalid credentials")
	}

	return s.issueSession(ctx, u)
}

// Refresh rotates the session: the presented refresh token must both
// verify and match the stored credential, so a stolen-then-rotated token
// dies on first reuse.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*model.AuthResponse, error) {
	claims, err := s.tokens.Verify(rawToken, token.Refresh)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid refresh token")
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil, apperr.Unauthenticated("invalid refresh token")
	}
	if err != nil {
		return nil, err
	}

	if u.RefreshToken == "" || u.RefreshToken != rawToken {
		return nil, apperr.Unauthenticated("refresh token revoked")
	}

	return s.issueSession(ctx, u)
}

// Logout revokes the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.users.UpdateRefreshToken(ctx, userID, "")
}

// ChangePassword verifies the old password, stores the new hash and
// revokes outstanding refresh tokens.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req model.ChangePasswordRequest) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Verify(u.PasswordHash, req.OldPassword) {
		return apperr.Unauthenticated("old password is incorrect")
	}
	if len(req.NewPassword) < 8 {
		return apperr.Invalid("password must be at least 8 characters")
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return apperr.Invalid("%s", err.Error())
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) issueSession(ctx context.Context, u *model.User) (*model.AuthResponse, error) {
	access, err := s.tokens.Issue(token.Access, u.ID, u.Username, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(token.Refresh, u.ID, "", s.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateRefreshToken(ctx, u.ID, refresh); err != nil {
		return nil, err
	}
	u.RefreshToken = refresh

	return &model.AuthResponse{
		User:         u,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
