package server

import (
	"studyoverflow/internal/middleware"
	"studyoverflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments returns the post's comment threads (public)
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := middleware.CurrentUserID(c)

	tree, err := s.commentService.ListComments(c.UserContext(), postID, viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tree)
}

// CreateComment answers a post or replies to one of its comments (protected)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	created, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:   userID,
		PostID:   postID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// AcceptAnswer marks a comment as the accepted answer (protected, post author only)
func (s *Server) AcceptAnswer(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		PostID *uint `json:"post_id"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}

	if err := s.commentService.AcceptAnswer(c.UserContext(), service.AcceptAnswerInput{
		UserID:    userID,
		CommentID: commentID,
		PostID:    req.PostID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
