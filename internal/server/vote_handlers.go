package server

import (
	"studyoverflow/internal/middleware"
	"studyoverflow/internal/models"
	"studyoverflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

// VotePost handles POST /api/posts/:id/vote
func (s *Server) VotePost(c *fiber.Ctx) error {
	return s.vote(c, models.SubjectPost)
}

// VoteComment handles POST /api/comments/:id/vote
func (s *Server) VoteComment(c *fiber.Ctx) error {
	return s.vote(c, models.SubjectComment)
}

// vote toggles the caller's vote: repeating a vote removes it, the opposite value flips it.
func (s *Server) vote(c *fiber.Ctx, kind models.SubjectKind) error {
	userID, _ := middleware.CurrentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Value int `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	res, err := s.voteService.Vote(c.UserContext(), service.VoteInput{
		UserID:    userID,
		Kind:      kind,
		SubjectID: id,
		Value:     req.Value,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"vote_count": res.VoteCount,
		"user_vote":  res.UserVote,
	})
}
