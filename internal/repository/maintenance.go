package repository

import (
	"context"

	"gorm.io/gorm"
)

// RecountReport lists how many rows each repair statement touched.
type RecountReport struct {
	PostVotes     int64
	CommentVotes  int64
	CommentCounts int64
	Answered      int64
}

// MaintenanceRepository repairs denormalized aggregates from their source rows.
type MaintenanceRepository interface {
	Recount(ctx context.Context) (*RecountReport, error)
}

type maintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository creates a new MaintenanceRepository.
func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

const (
	recountPostVotesSQL = `UPDATE posts SET vote_count = COALESCE(
	(SELECT SUM(value) FROM post_votes WHERE post_votes.post_id = posts.id), 0)
WHERE vote_count <> COALESCE((SELECT SUM(value) FROM post_votes WHERE post_votes.post_id = posts.id), 0)`

	recountCommentVotesSQL = `UPDATE comments SET vote_count = COALESCE(
	(SELECT SUM(value) FROM comment_votes WHERE comment_votes.comment_id = comments.id), 0)
WHERE vote_count <> COALESCE((SELECT SUM(value) FROM comment_votes WHERE comment_votes.comment_id = comments.id), 0)`

	recountCommentCountsSQL = `UPDATE posts SET comment_count =
	(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)
WHERE comment_count <> (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)`

	recountAnsweredSQL = `UPDATE posts SET is_answered = ?
WHERE is_answered = ?
AND EXISTS (SELECT 1 FROM comments WHERE comments.post_id = posts.id AND comments.is_accepted_answer = ?)`
)

// Recount recomputes vote counts, comment counts and the answered flag in one transaction.
// A post keeps is_answered once set; only posts with an accepted comment but no flag are fixed.
func (r *maintenanceRepository) Recount(ctx context.Context) (*RecountReport, error) {
	report := &RecountReport{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			sql  string
			args []interface{}
			out  *int64
		}{
			{recountPostVotesSQL, nil, &report.PostVotes},
			{recountCommentVotesSQL, nil, &report.CommentVotes},
			{recountCommentCountsSQL, nil, &report.CommentCounts},
			{recountAnsweredSQL, []interface{}{true, false, true}, &report.Answered},
		}
		for _, step := range steps {
			res := tx.Exec(step.sql, step.args...)
			if res.Error != nil {
				return res.Error
			}
			*step.out = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
