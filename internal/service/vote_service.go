package service

import (
	"context"

	"studyoverflow/internal/models"
	"studyoverflow/internal/repository"
)

// VoteService applies up/down vote toggles on posts and comments.
type VoteService struct {
	votes repository.VoteRepository
}

type VoteInput struct {
	UserID    string
	Kind      models.SubjectKind
	SubjectID uint
	Value     int
}

func NewVoteService(votes repository.VoteRepository) *VoteService {
	return &VoteService{votes: votes}
}

// Vote toggles the caller's vote. Invalid input is rejected before any storage access.
func (s *VoteService) Vote(ctx context.Context, in VoteInput) (*models.VoteResult, error) {
	if err := models.ValidateVoteValue(in.Value); err != nil {
		return nil, err
	}
	if !in.Kind.Valid() {
		return nil, models.NewValidationError("Unsupported vote subject")
	}
	if in.UserID == "" {
		return nil, models.NewUnauthorizedError("Authentication required to vote")
	}
	return s.votes.Apply(ctx, in.Kind, in.SubjectID, in.UserID, in.Value)
}
