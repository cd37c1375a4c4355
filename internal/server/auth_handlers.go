package server

import (
	"errors"

	"vueblog/internal/models"
	"vueblog/internal/service"
	"vueblog/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RegisterUser handles POST /user/create
func (s *Server) RegisterUser(c *fiber.Ctx) error {
	var req validation.Registration
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if _, _, err := s.users.Register(c.Context(), req); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "User has been created successfully.",
		"resp":    fiber.StatusCreated,
	})
}

// ObtainAuthToken handles POST /api-token-auth
func (s *Server) ObtainAuthToken(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var errs models.FieldErrors
	if req.Username == "" {
		errs = append(errs, models.FieldError{Field: "username", Message: validation.RequiredMessage})
	}
	if req.Password == "" {
		errs = append(errs, models.FieldError{Field: "password", Message: validation.RequiredMessage})
	}
	if len(errs) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest, errs)
	}

	token, err := s.users.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewFieldError("non_field_errors", "Unable to log in with provided credentials."))
		}
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token.Key,
		"user":  token.UserID,
	})
}

// ChangePassword handles PUT /password-change
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		Password        string `json:"password" form:"password"`
		NewPassword     string `json:"new_password" form:"new_password"`
		ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	err := s.users.ChangePassword(c.Context(), service.ChangePasswordInput{
		UserID:          currentUserID(c),
		CurrentPassword: req.Password,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "failed",
				"message": "Invalid Password",
			})
		}
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"code":    fiber.StatusOK,
		"message": "Password updated successfully",
	})
}
