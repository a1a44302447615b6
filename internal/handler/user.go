package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/respond"
	"github.com/vidora/vidora-go/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me handles GET /api/v1/users/me.
func (h *UserHandler) Me(c fiber.Ctx) error {
	u, err := h.users.Get(c.Context(), middleware.UserID(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, u, "current user")
}

// UpdateProfile handles PATCH /api/v1/users/me.
func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	var req model.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return respond.Error(c, apperr.Invalid("invalid request body"))
	}

	u, err := h.users.UpdateProfile(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, u, "profile updated")
}

// UpdateAvatar handles PATCH /api/v1/users/me/avatar.
func (h *UserHandler) UpdateAvatar(c fiber.Ctx) error {
	up, err := openUpload(c, "avatar")
	if err != nil || up == nil {
		return respond.Error(c, apperr.Invalid("avatar file is required"))
	}
	defer up.Close()

	u, err := h.users.UpdateAvatar(c.Context(), middleware.UserID(c), up.file, up.size, up.name, up.contentType)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, u, "avatar updated")
}

// UpdateCover handles PATCH /api/v1/users/me/cover.
func (h *UserHandler) UpdateCover(c fiber.Ctx) error {
	up, err := openUpload(c, "cover")
	if err != nil || up == nil {
		return respond.Error(c, apperr.Invalid("cover file is required"))
	}
	defer up.Close()

	u, err := h.users.UpdateCover(c.Context(), middleware.UserID(c), up.file, up.size, up.name, up.contentType)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, u, "cover updated")
}

// Channel handles GET /api/v1/channels/:username, the public channel
// page with viewer-aware subscription state.
func (h *UserHandler) Channel(c fiber.Ctx) error {
	profile, err := h.users.Channel(c.Context(), c.Params("username"), middleware.OptionalUserID(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, profile, "channel profile")
}
