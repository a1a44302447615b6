package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/respond"
	"github.com/vidora/vidora-go/internal/service"
)

type AuthHandler struct {
	auth       *service.AuthService
	assets     *service.AssetService
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
}

func NewAuthHandler(auth *service.AuthService, assets *service.AssetService, accessTTL, refreshTTL time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		assets:     assets,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		secure:     secure,
	}
}

// Register handles POST /api/v1/auth/register (multipart: fields plus
// optional avatar and cover images).
func (h *AuthHandler) Register(c fiber.Ctx) error {
	req := model.RegisterRequest{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		FullName: c.FormValue("fullName"),
		Password: c.FormValue("password"),
	}

	avatarUp, err := openUpload(c, "avatar")
	if err != nil {
		return respond.Error(c, apperr.Invalid("unreadable avatar upload"))
	}
	defer avatarUp.Close()

	coverUp, err := openUpload(c, "cover")
	if err != nil {
		return respond.Error(c, apperr.Invalid("unreadable cover upload"))
	}
	defer coverUp.Close()

	var avatar, cover *service.Asset
	if avatarUp != nil {
		avatar, err = h.assets.Upload(c.Context(), avatarUp.file, avatarUp.size, "avatars", avatarUp.name, avatarUp.contentType)
		if err != nil {
			return respond.Error(c, apperr.Internal("failed to store avatar", err))
		}
	}
	if coverUp != nil {
		cover, err = h.assets.Upload(c.Context(), coverUp.file, coverUp.size, "covers", coverUp.name, coverUp.contentType)
		if err != nil {
			return respond.Error(c, apperr.Internal("failed to store cover", err))
		}
	}

	resp, err := h.auth.Register(c.Context(), req, avatar, cover)
	if err != nil {
		return respond.Error(c, err)
	}

	h.setSessionCookies(c, resp)
	return respond.Created(c, resp, "account created")
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return respond.Error(c, apperr.Invalid("invalid request body"))
	}

	resp, err := h.auth.Login(c.Context(), req)
	if err != nil {
		return respond.Error(c, err)
	}

	h.setSessionCookies(c, resp)
	return respond.OK(c, resp, "logged in")
}

// Refresh handles POST /api/v1/auth/refresh. The refresh token comes
// from the cookie or, for non-browser clients, the request body.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	raw := c.Cookies("refreshToken")
	if raw == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.Bind().JSON(&body); err == nil {
			raw = body.RefreshToken
		}
	}
	if raw == "" {
		return respond.Error(c, apperr.Unauthenticated("refresh token required"))
	}

	resp, err := h.auth.Refresh(c.Context(), raw)
	if err != nil {
		return respond.Error(c, err)
	}

	h.setSessionCookies(c, resp)
	return respond.OK(c, resp, "session refreshed")
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if err := h.auth.Logout(c.Context(), middleware.UserID(c)); err != nil {
		return respond.Error(c, err)
	}

	h.clearSessionCookies(c)
	return respond.OK(c, nil, "logged out")
}

// ChangePassword handles POST /api/v1/auth/change-password.
func (h *AuthHandler) ChangePassword(c fiber.Ctx) error {
	var req model.ChangePasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return respond.Error(c, apperr.Invalid("invalid request body"))
	}

	if err := h.auth.ChangePassword(c.Context(), middleware.UserID(c), req); err != nil {
		return respond.Error(c, err)
	}

	h.clearSessionCookies(c)
	return respond.OK(c, nil, "password changed")
}

func (h *AuthHandler) setSessionCookies(c fiber.Ctx, resp *model.AuthResponse) {
	c.Cookie(&fiber.Cookie{
		Name:     "accessToken",
		Value:    resp.AccessToken,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.accessTTL),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    resp.RefreshToken,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.refreshTTL),
	})
}

func (h *AuthHandler) clearSessionCookies(c fiber.Ctx) {
	c.ClearCookie("accessToken", "refreshToken")
}
