package server

import (
	"strconv"

	"echowall/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed page/limit query parameters.
type Pagination struct {
	Page  int
	Limit int
}

const maxPaginationLimit = 50

// parsePagination extracts page and limit query parameters with the given
// default limit. Non-numeric values are a validation error; out-of-range
// numbers clamp, and limits are capped so a single request cannot drain
// the table.
func parsePagination(c *fiber.Ctx, defaultLimit int) (Pagination, error) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return Pagination{}, err
	}
	if page < 1 {
		page = 1
	}

	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil {
		return Pagination{}, err
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	return Pagination{Page: page, Limit: limit}, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError("Invalid " + key + " parameter")
	}
	return v, nil
}

// currentUserID returns the authenticated user ID, or "" for anonymous
// requests.
func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

// respondErr maps an application error to its HTTP status and writes the
// error envelope.
func respondErr(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}
