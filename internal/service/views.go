// Package service holds the application's use cases on top of the repositories.
package service

import (
	"context"

	"studyoverflow/internal/models"
	"studyoverflow/internal/observability"
	"studyoverflow/internal/repository"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// ViewComposer joins posts and comments with their authors, courses and the
// viewer's own votes. Dangling references become placeholders.
type ViewComposer struct {
	users   repository.UserRepository
	catalog repository.CatalogRepository
	votes   repository.VoteRepository
	log     *observability.StructuredLogger
}

// NewViewComposer creates a ViewComposer.
func NewViewComposer(
	users repository.UserRepository,
	catalog repository.CatalogRepository,
	votes repository.VoteRepository,
) *ViewComposer {
	return &ViewComposer{
		users:   users,
		catalog: catalog,
		votes:   votes,
		log:     observability.NewStructuredLogger(),
	}
}

// Posts composes the read views of posts in input order.
func (v *ViewComposer) Posts(ctx context.Context, posts []models.Post, viewerID string) ([]models.PostWithAuthor, error) {
	out := make([]models.PostWithAuthor, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	authorIDs := lo.Uniq(lo.Map(posts, func(p models.Post, _ int) string { return p.AuthorID }))
	courseIDs := lo.Uniq(lo.Map(posts, func(p models.Post, _ int) uint { return p.CourseID }))
	postIDs := lo.Map(posts, func(p models.Post, _ int) uint { return p.ID })

	var (
		authors map[string]models.User
		courses map[uint]models.Course
		votes   map[uint]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := v.users.FindByIDs(gctx, authorIDs)
		authors = lo.KeyBy(found, func(u models.User) string { return u.ID })
		return err
	})
	g.Go(func() error {
		found, err := v.catalog.FindCoursesByIDs(gctx, courseIDs)
		courses = lo.KeyBy(found, func(c models.Course) uint { return c.ID })
		return err
	})
	g.Go(func() error {
		var err error
		votes, err = v.votes.UserVotes(gctx, models.SubjectPost, viewerID, postIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range posts {
		author := lookup(authors, p.AuthorID)
		course := lookup(courses, p.CourseID)
		if author == nil {
			v.dangling(ctx, "post", p.ID, "author", p.AuthorID)
		}
		if course == nil {
			v.dangling(ctx, "post", p.ID, "course", p.CourseID)
		}
		out = append(out, models.ComposePost(p, author, course, voteOf(votes, p.ID)))
	}
	return out, nil
}

// Post composes a single post view.
func (v *ViewComposer) Post(ctx context.Context, post models.Post, viewerID string) (*models.PostWithAuthor, error) {
	views, err := v.Posts(ctx, []models.Post{post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Comments composes the flat read views of comments in input order.
func (v *ViewComposer) Comments(ctx context.Context, comments []models.Comment, viewerID string) ([]models.CommentWithAuthor, error) {
	out := make([]models.CommentWithAuthor, 0, len(comments))
	if len(comments) == 0 {
		return out, nil
	}

	authorIDs := lo.Uniq(lo.Map(comments, func(c models.Comment, _ int) string { return c.AuthorID }))
	commentIDs := lo.Map(comments, func(c models.Comment, _ int) uint { return c.ID })

	var (
		authors map[string]models.User
		votes   map[uint]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := v.users.FindByIDs(gctx, authorIDs)
		authors = lo.KeyBy(found, func(u models.User) string { return u.ID })
		return err
	})
	g.Go(func() error {
		var err error
		votes, err = v.votes.UserVotes(gctx, models.SubjectComment, viewerID, commentIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, c := range comments {
		author := lookup(authors, c.AuthorID)
		if author == nil {
			v.dangling(ctx, "comment", c.ID, "author", c.AuthorID)
		}
		out = append(out, models.ComposeComment(c, author, voteOf(votes, c.ID)))
	}
	return out, nil
}

// ChatMessages attaches sender profiles to msgs in place.
func (v *ViewComposer) ChatMessages(ctx context.Context, msgs []models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	senderIDs := lo.Uniq(lo.Map(msgs, func(m models.ChatMessage, _ int) string { return m.SenderID }))
	found, err := v.users.FindByIDs(ctx, senderIDs)
	if err != nil {
		return err
	}
	senders := lo.KeyBy(found, func(u models.User) string { return u.ID })
	for i := range msgs {
		sender := lookup(senders, msgs[i].SenderID)
		if sender == nil {
			v.dangling(ctx, "chat_message", msgs[i].ID, "sender", msgs[i].SenderID)
		}
		profile := models.NewAuthorProfile(msgs[i].SenderID, sender)
		msgs[i].Sender = &profile
	}
	return nil
}

func (v *ViewComposer) dangling(ctx context.Context, entity string, id uint, ref string, refID any) {
	v.log.LogConsistencyWarning(ctx, "dangling reference replaced with placeholder", map[string]interface{}{
		"entity":    entity,
		"entity_id": id,
		"reference": ref,
		"ref_id":    refID,
	})
}

func lookup[K comparable, V any](m map[K]V, key K) *V {
	if v, ok := m[key]; ok {
		return &v
	}
	return nil
}

func voteOf(votes map[uint]int, id uint) *int {
	if v, ok := votes[id]; ok {
		return &v
	}
	return nil
}
