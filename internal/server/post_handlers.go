package server

import (
	"io"

	"vueblog/internal/models"
	"vueblog/internal/repository"
	"vueblog/internal/service"

	"github.com/gofiber/fiber/v2"
)

// formImage reads the optional uploaded image from the multipart form,
// returning nil bytes when the field is absent.
func formImage(c *fiber.Ctx) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// ListPosts handles GET /posts with ?page=, ?search= and ?ordering=.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := s.config.PageSize

	posts, total, err := s.posts.ListPosts(c.Context(), repository.ListQuery{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	next := pageLink(c, page+1, pageSize, total)
	previous := pageLink(c, page-1, pageSize, total)

	resp := fiber.Map{
		"count":    total,
		"results":  posts,
		"next":     nil,
		"previous": nil,
	}
	if next != "" {
		resp["next"] = next
	}
	if previous != "" {
		resp["previous"] = previous
	}
	return c.JSON(resp)
}

// CreatePost handles POST /posts (multipart form).
func (s *Server) CreatePost(c *fiber.Ctx) error {
	image, err := formImage(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid image upload"))
	}

	post, err := s.posts.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID: currentUserID(c),
		Title:    c.FormValue("title"),
		Body:     c.FormValue("body"),
		Image:    image,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created",
		"result":  post,
	})
}

// GetPost handles GET /posts/:id. Every fetch bumps the viewcount.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.posts.GetPost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PUT /post/:id/edit (partial update).
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	image, err := formImage(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid image upload"))
	}

	post, err := s.posts.UpdatePost(c.Context(), service.UpdatePostInput{
		PostID: id,
		Title:  c.FormValue("title"),
		Body:   c.FormValue("body"),
		Image:  image,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /post/:id/delete. Reviews cascade and the
// image file is removed.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.posts.DeletePost(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MyPosts handles GET /my-posts.
func (s *Server) MyPosts(c *fiber.Ctx) error {
	posts, err := s.posts.MyPosts(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// RelatedPosts handles GET /related_posts/:id.
func (s *Server) RelatedPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	posts, err := s.posts.RelatedPosts(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// PostsByAuthor handles GET /posts_by_author/:id.
func (s *Server) PostsByAuthor(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if _, err := s.users.GetUserByID(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	posts, err := s.posts.PostsByAuthor(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// LatestPosts handles GET /latest_posts.
func (s *Server) LatestPosts(c *fiber.Ctx) error {
	posts, err := s.posts.LatestPosts(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// FeaturedPosts handles GET /featured_posts.
func (s *Server) FeaturedPosts(c *fiber.Ctx) error {
	posts, err := s.posts.FeaturedPosts(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}
