package server

import (
	"studyoverflow/internal/middleware"
	"studyoverflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultChatPageSize = 50

// GetChats lists the caller's chats, most recently active first (protected)
func (s *Server) GetChats(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	chats, err := s.chatService.ListChats(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(chats)
}

// CreateChat starts a chat; the caller is always a member (protected)
func (s *Server) CreateChat(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	var req service.CreateChatInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	req.UserID = userID

	chat, err := s.chatService.CreateChat(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(chat)
}

// GetChatMessages returns a page of messages, oldest first (protected, members only)
func (s *Server) GetChatMessages(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	chatID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultChatPageSize)

	msgs, err := s.chatService.Messages(c.UserContext(), chatID, userID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msgs)
}

// SendChatMessage posts a message to a chat (protected, members only)
func (s *Server) SendChatMessage(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	chatID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	msg, err := s.chatService.SendMessage(c.UserContext(), service.SendChatMessageInput{
		UserID:  userID,
		ChatID:  chatID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
