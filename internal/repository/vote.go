package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyoverflow/internal/cache"
	"studyoverflow/internal/models"
	"studyoverflow/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository owns vote rows and the cached vote counters of posts and comments.
type VoteRepository interface {
	// Apply toggles userID's vote on the subject and returns the new counter
	// and the caller's resulting vote.
	Apply(ctx context.Context, kind models.SubjectKind, subjectID uint, userID string, value int) (*models.VoteResult, error)
	// UserVotes returns userID's vote values keyed by subject ID for the given subjects.
	UserVotes(ctx context.Context, kind models.SubjectKind, userID string, subjectIDs []uint) (map[uint]int, error)
}

type voteRepository struct {
	db      *gorm.DB
	logger  *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewVoteRepository creates a new VoteRepository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{
		db:      db,
		logger:  observability.NewRepoLogger("votes"),
		metrics: observability.NewDatabaseMetrics(),
	}
}

type lockedSubject struct {
	ID     uint
	PostID uint
}

func (r *voteRepository) Apply(ctx context.Context, kind models.SubjectKind, subjectID uint, userID string, value int) (*models.VoteResult, error) {
	if !kind.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("unsupported vote subject %q", kind))
	}
	if err := models.ValidateVoteValue(value); err != nil {
		return nil, err
	}

	ctx, span := observability.TraceRepositoryMethod(ctx, "Apply", kind.VoteTable())
	defer span.End()
	defer r.metrics.TrackQuery("apply_vote", kind.VoteTable())()

	var (
		result   models.VoteResult
		decision models.VoteDecision
		postID   uint
	)
	err := withTxRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			subject, err := lockSubject(tx, kind, subjectID)
			if err != nil {
				return err
			}
			postID = subject.PostID

			existing, err := existingVote(tx, kind, subjectID, userID)
			if err != nil {
				return err
			}

			decision = models.DecideVote(existing, value)
			if err := writeVote(tx, kind, subjectID, userID, value, decision.Action); err != nil {
				return err
			}

			count, err := bumpVoteCount(tx, kind, subjectID, decision.Delta)
			if err != nil {
				return err
			}
			result = models.VoteResult{VoteCount: count, UserVote: decision.UserVote}
			return nil
		})
	}, func(int) {
		observability.VoteRetries.WithLabelValues(string(kind)).Inc()
	})
	if err != nil {
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			span.RecordError(err)
			r.logger.LogError(ctx, err, "apply_vote")
		}
		return nil, err
	}

	observability.RecordVote(string(kind), string(decision.Action))
	fields := map[string]interface{}{
		"kind":       string(kind),
		"subject_id": subjectID,
		"action":     string(decision.Action),
		"delta":      decision.Delta,
	}
	if decision.Action == models.VoteRemoved {
		r.logger.LogDelete(ctx, fields)
	} else {
		r.logger.LogUpdate(ctx, fields)
	}
	cache.InvalidatePost(ctx, postID)

	return &result, nil
}

// lockSubject takes a row lock on the voted subject for the rest of the transaction.
func lockSubject(tx *gorm.DB, kind models.SubjectKind, id uint) (lockedSubject, error) {
	columns := []string{"id"}
	if kind == models.SubjectComment {
		columns = append(columns, "post_id")
	}

	var rows []lockedSubject
	err := tx.Table(kind.Table()).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select(columns).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return lockedSubject{}, err
	}
	if len(rows) == 0 {
		return lockedSubject{}, models.NewSubjectNotFoundError(kind, id)
	}

	subject := rows[0]
	if kind == models.SubjectPost {
		subject.PostID = subject.ID
	}
	return subject, nil
}

func existingVote(tx *gorm.DB, kind models.SubjectKind, subjectID uint, userID string) (*int, error) {
	var values []int
	err := tx.Table(kind.VoteTable()).
		Where(kind.SubjectColumn()+" = ? AND user_id = ?", subjectID, userID).
		Limit(1).
		Pluck("value", &values).Error
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return &values[0], nil
}

func writeVote(tx *gorm.DB, kind models.SubjectKind, subjectID uint, userID string, value int, action models.VoteAction) error {
	table, column := kind.VoteTable(), kind.SubjectColumn()
	now := time.Now()

	var res *gorm.DB
	switch action {
	case models.VoteInserted:
		res = tx.Exec(
			fmt.Sprintf("INSERT INTO %s (%s, user_id, value, created_at, updated_at) VALUES (?, ?, ?, ?, ?)", table, column),
			subjectID, userID, value, now, now,
		)
	case models.VoteRemoved:
		res = tx.Exec(
			fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND user_id = ?", table, column),
			subjectID, userID,
		)
	case models.VoteFlipped:
		res = tx.Exec(
			fmt.Sprintf("UPDATE %s SET value = ?, updated_at = ? WHERE %s = ? AND user_id = ?", table, column),
			value, now, subjectID, userID,
		)
	default:
		return fmt.Errorf("unknown vote action %q", action)
	}
	return res.Error
}

func bumpVoteCount(tx *gorm.DB, kind models.SubjectKind, id uint, delta int) (int, error) {
	err := tx.Exec(
		fmt.Sprintf("UPDATE %s SET vote_count = vote_count + ? WHERE id = ?", kind.Table()),
		delta, id,
	).Error
	if err != nil {
		return 0, err
	}

	var counts []int
	if err := tx.Table(kind.Table()).Where("id = ?", id).Limit(1).Pluck("vote_count", &counts).Error; err != nil {
		return 0, err
	}
	if len(counts) == 0 {
		return 0, models.NewSubjectNotFoundError(kind, id)
	}
	return counts[0], nil
}

func (r *voteRepository) UserVotes(ctx context.Context, kind models.SubjectKind, userID string, subjectIDs []uint) (map[uint]int, error) {
	out := make(map[uint]int)
	if userID == "" || len(subjectIDs) == 0 {
		return out, nil
	}
	defer r.metrics.TrackQuery("user_votes", kind.VoteTable())()

	type row struct {
		SubjectID uint
		Value     int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table(kind.VoteTable()).
		Select(kind.SubjectColumn()+" AS subject_id, value").
		Where("user_id = ? AND "+kind.SubjectColumn()+" IN ?", userID, subjectIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, v := range rows {
		out[v.SubjectID] = v.Value
	}
	return out, nil
}
