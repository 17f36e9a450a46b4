package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Sentinel causes carried by domain AppErrors. Match them with errors.Is.
var (
	ErrInvalidVoteValue = errors.New("vote value must be 1 or -1")
	ErrSubjectNotFound  = errors.New("vote subject not found")
	ErrCommentNotFound  = errors.New("comment not found")
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// NewInvalidVoteValueError rejects anything other than an up or down vote.
func NewInvalidVoteValueError(value int) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("Invalid vote value %d", value),
		Err:     ErrInvalidVoteValue,
	}
}

// NewSubjectNotFoundError reports a vote against a post or comment that does not exist.
func NewSubjectNotFoundError(kind SubjectKind, id uint) *AppError {
	err := NewNotFoundError(kind.Label(), id)
	err.Err = ErrSubjectNotFound
	return err
}

func NewCommentNotFoundError(id uint) *AppError {
	err := NewNotFoundError("Comment", id)
	err.Err = ErrCommentNotFound
	return err
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
