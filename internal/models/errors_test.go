package models

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorEnvelope(t *testing.T, status int, err error) (int, []map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithError(c, status, err)
	})

	resp, terr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, terr)
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Errors []map[string]any `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body.Errors
}

func TestRespondWithError_FieldErrors(t *testing.T) {
	errs := FieldErrors{
		{Field: "title", Message: "This field is required"},
		{Field: "body", Message: "This field is required"},
	}
	status, entries := errorEnvelope(t, fiber.StatusBadRequest, errs)

	assert.Equal(t, fiber.StatusBadRequest, status)
	require.Len(t, entries, 2)
	assert.Equal(t, "title", entries[0]["field"])
	assert.Equal(t, "This field is required", entries[0]["message"])
	assert.Equal(t, "body", entries[1]["field"])
}

func TestRespondWithError_AppError(t *testing.T) {
	status, entries := errorEnvelope(t, fiber.StatusNotFound, NewNotFoundError("Post", 9))

	assert.Equal(t, fiber.StatusNotFound, status)
	require.Len(t, entries, 1)
	assert.Equal(t, "detail", entries[0]["field"])
	assert.Equal(t, "Post with ID 9 not found", entries[0]["message"])
}

func TestRespondWithError_PlainError(t *testing.T) {
	status, entries := errorEnvelope(t, fiber.StatusInternalServerError, errors.New("boom"))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	require.Len(t, entries, 1)
	assert.Equal(t, "detail", entries[0]["field"])
}

func TestRespondWithError_ListMessagePassthrough(t *testing.T) {
	// a field may carry multiple messages; the envelope keeps the list
	errs := NewFieldError("password", []string{"Too short.", "Too common."})
	_, entries := errorEnvelope(t, fiber.StatusBadRequest, errs)

	require.Len(t, entries, 1)
	assert.Equal(t, []any{"Too short.", "Too common."}, entries[0]["message"])
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFieldErrorsError(t *testing.T) {
	assert.Equal(t, "validation failed", FieldErrors{}.Error())
	assert.Equal(t, "email: This field must be unique.",
		NewFieldError("email", "This field must be unique.").Error())
}
