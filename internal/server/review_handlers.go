package server

import (
	"vueblog/internal/models"
	"vueblog/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CreateReview handles POST /review/:id where :id is the parent post.
func (s *Server) CreateReview(c *fiber.Ctx) error {
	postID, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		// pointer so a missing rating is distinguishable from 0.0
		Rating *decimal.Decimal `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviews.CreateReview(c.Context(), service.CreateReviewInput{
		AuthorID: currentUserID(c),
		PostID:   postID,
		Title:    req.Title,
		Body:     req.Body,
		Rating:   req.Rating,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Review has been submitted.",
		"resp":    fiber.StatusCreated,
		"data":    review,
	})
}

// DeleteReview handles DELETE /review/:id/delete.
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.reviews.DeleteReview(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
