package server

import (
	"studyoverflow/internal/middleware"
	"studyoverflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts?course_id=&university_id=&sort=&limit=&offset=
func (s *Server) GetPosts(c *fiber.Ctx) error {
	courseID, err := parseOptionalID(c, "course_id")
	if err != nil {
		return nil
	}
	universityID, err := parseOptionalID(c, "university_id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageSize)
	viewerID, _ := middleware.CurrentUserID(c)

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		ViewerID:     viewerID,
		CourseID:     courseID,
		UniversityID: universityID,
		Sort:         c.Query("sort"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := middleware.CurrentUserID(c)

	post, err := s.postService.GetPost(c.UserContext(), id, viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	var req struct {
		CourseID uint   `json:"course_id"`
		Title    string `json:"title"`
		Content  string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:   userID,
		CourseID: req.CourseID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}
