package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/repository"
)

// ParseID parses a UUID route parameter.
func ParseID(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Invalid("%s must be a valid id", name)
	}
	return id, nil
}

// PageParams reads ?page= and ?limit= and clamps them to sane values.
// Malformed numbers fall back to the defaults rather than erroring.
func PageParams(c fiber.Ctx) repository.PageParams {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return repository.NewPageParams(page, limit)
}
