package server

import (
	"errors"
	"net/url"
	"strconv"

	"vueblog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// the app's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts the :id route parameter as a positive uint. On failure
// it writes a 400 JSON response and returns errResponseWritten; callers
// check: if err != nil { return nil }.
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's id set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	uid, _ := c.Locals("userID").(uint)
	return uid
}

// respondServiceError maps service-layer errors onto HTTP statuses with the
// uniform error envelope.
func respondServiceError(c *fiber.Ctx, err error) error {
	var fieldErrs models.FieldErrors
	if errors.As(err, &fieldErrs) {
		return models.RespondWithError(c, fiber.StatusBadRequest, fieldErrs)
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		}
	}

	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// pageLink builds the absolute page URL for the post list envelope, or ""
// when the page is out of range. Search and ordering parameters are carried
// so following a link keeps the client's filtered view.
func pageLink(c *fiber.Ctx, page, pageSize int, total int64) string {
	if page < 1 {
		return ""
	}
	if int64(pageSize)*int64(page-1) >= total {
		return ""
	}

	params := url.Values{}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	if search := c.Query("search"); search != "" {
		params.Set("search", search)
	}
	if ordering := c.Query("ordering"); ordering != "" {
		params.Set("ordering", ordering)
	}

	link := c.BaseURL() + c.Path()
	if len(params) > 0 {
		link += "?" + params.Encode()
	}
	return link
}
