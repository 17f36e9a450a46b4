package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"studyoverflow/internal/featureflags"
	"studyoverflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationRecorder struct {
	repo *notificationRepoStub
	sent []models.Notification
}

func newNotificationRecorder() *notificationRecorder {
	r := &notificationRecorder{repo: noopNotificationRepo()}
	r.repo.createFn = func(_ context.Context, n *models.Notification) error {
		r.sent = append(r.sent, *n)
		return nil
	}
	return r
}

func (r *notificationRecorder) service() *NotificationService {
	return NewNotificationService(r.repo, featureflags.NewManager("notifications=on"))
}

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopPostRepo(), noopViews(), nil)
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: "u1", PostID: 1})
		assertValidationError(t, err)
	})

	t.Run("whitespace content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: "u1", PostID: 1, Content: "   \n"})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  "u1",
			PostID:  1,
			Content: strings.Repeat("x", 10001),
		})
		assertValidationError(t, err)
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{PostID: 1, Content: "hi"})
		assertUnauthorizedError(t, err)
	})

	t.Run("post not found propagates repo error", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, _ *models.Comment) error {
			return errors.New("should not be called")
		}
		svc2 := NewCommentService(commentRepo, postRepo, noopViews(), nil)
		_, err := svc2.CreateComment(ctx, CreateCommentInput{UserID: "u1", PostID: 99, Content: "hi"})
		assertAppError(t, err, "NOT_FOUND")
	})
}

func TestCommentService_CreateComment_NotifiesPostAuthor(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: "asker"}, nil
	}
	commentRepo := noopCommentRepo()
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 42
		return nil
	}
	rec := newNotificationRecorder()
	svc := NewCommentService(commentRepo, postRepo, noopViews(), rec.service())

	parent := uint(7)
	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID: "helper", PostID: 5, ParentID: &parent, Content: "  Try the master theorem.  ",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), comment.ID)
	assert.Equal(t, "helper", comment.AuthorID)
	assert.Equal(t, "Try the master theorem.", comment.Content)
	require.NotNil(t, comment.ParentID)
	assert.Equal(t, uint(7), *comment.ParentID)

	require.Len(t, rec.sent, 1)
	n := rec.sent[0]
	assert.Equal(t, "asker", n.UserID)
	assert.Equal(t, "New reply to your question", n.Title)
	assert.Equal(t, models.NotificationTypeComment, n.Type)
	require.NotNil(t, n.Link)
	assert.Equal(t, "/post/5", *n.Link)

	_, err = svc.CreateComment(context.Background(), CreateCommentInput{
		UserID: "asker", PostID: 5, Content: "Answering my own question",
	})
	require.NoError(t, err)
	assert.Len(t, rec.sent, 1, "self replies are not notified")
}

func TestCommentService_CreateComment_NotificationFailureIgnored(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: "asker"}, nil
	}
	notifications := noopNotificationRepo()
	notifications.createFn = func(_ context.Context, _ *models.Notification) error {
		return errors.New("db down")
	}
	notifier := NewNotificationService(notifications, featureflags.NewManager("notifications=on"))
	svc := NewCommentService(noopCommentRepo(), postRepo, noopViews(), notifier)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: "helper", PostID: 1, Content: "hello"})
	assert.NoError(t, err)
}

func TestCommentService_ListComments_BuildsTree(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := uint(1)
	commentRepo := noopCommentRepo()
	commentRepo.listByPostFn = func(_ context.Context, _ uint) ([]models.Comment, error) {
		return []models.Comment{
			{ID: 1, PostID: 3, AuthorID: "alice", VoteCount: 5, CreatedAt: base},
			{ID: 2, PostID: 3, AuthorID: "bob", ParentID: &a, VoteCount: 0, CreatedAt: base.Add(time.Minute)},
			{ID: 3, PostID: 3, AuthorID: "ghost", VoteCount: 1, CreatedAt: base.Add(2 * time.Minute)},
		}, nil
	}
	users := noopUserRepo()
	users.findByIDsFn = func(_ context.Context, ids []string) ([]models.User, error) {
		assert.ElementsMatch(t, []string{"alice", "bob", "ghost"}, ids)
		alice := "Alice"
		return []models.User{{ID: "alice", FirstName: &alice}, {ID: "bob"}}, nil
	}
	votes := noopVoteRepo()
	votes.userVotesFn = func(_ context.Context, kind models.SubjectKind, userID string, _ []uint) (map[uint]int, error) {
		assert.Equal(t, models.SubjectComment, kind)
		assert.Equal(t, "viewer", userID)
		return map[uint]int{2: -1}, nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), NewViewComposer(users, noopCatalogRepo(), votes), nil)
	roots, err := svc.ListComments(context.Background(), 3, "viewer")
	require.NoError(t, err)

	require.Len(t, roots, 2)
	assert.Equal(t, uint(1), roots[0].ID)
	assert.Equal(t, uint(3), roots[1].ID)
	require.NotNil(t, roots[0].Author.FirstName)
	assert.Equal(t, "Alice", *roots[0].Author.FirstName)
	assert.Equal(t, "ghost", roots[1].Author.ID)
	assert.Nil(t, roots[1].Author.FirstName)

	require.Len(t, roots[0].Replies, 1)
	reply := roots[0].Replies[0]
	assert.Equal(t, uint(2), reply.ID)
	assert.Equal(t, 1, reply.Depth)
	require.NotNil(t, reply.UserVote)
	assert.Equal(t, -1, *reply.UserVote)
	assert.Nil(t, roots[0].UserVote)
}

func TestCommentService_ListComments_PostNotFound(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewCommentService(noopCommentRepo(), postRepo, noopViews(), nil)
	_, err := svc.ListComments(context.Background(), 8, "")
	assertAppError(t, err, "NOT_FOUND")
}

func acceptFixture(commentAuthor, postAuthor string) (*commentRepoStub, *postRepoStub, *[][2]uint) {
	var accepted [][2]uint
	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		if id == 404 {
			return nil, models.NewCommentNotFoundError(id)
		}
		return &models.Comment{ID: id, PostID: 10, AuthorID: commentAuthor}, nil
	}
	commentRepo.acceptFn = func(_ context.Context, commentID, postID uint) error {
		accepted = append(accepted, [2]uint{commentID, postID})
		return nil
	}
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: postAuthor}, nil
	}
	return commentRepo, postRepo, &accepted
}

func TestCommentService_AcceptAnswer_Preconditions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		commentRepo, postRepo, accepted := acceptFixture("helper", "asker")
		svc := NewCommentService(commentRepo, postRepo, noopViews(), nil)
		err := svc.AcceptAnswer(ctx, AcceptAnswerInput{CommentID: 1})
		assertUnauthorizedError(t, err)
		assert.Empty(t, *accepted)
	})

	t.Run("comment not found", func(t *testing.T) {
		t.Parallel()
		commentRepo, postRepo, accepted := acceptFixture("helper", "asker")
		svc := NewCommentService(commentRepo, postRepo, noopViews(), nil)
		err := svc.AcceptAnswer(ctx, AcceptAnswerInput{UserID: "asker", CommentID: 404})
		assertAppError(t, err, "NOT_FOUND")
		assert.ErrorIs(t, err, models.ErrCommentNotFound)
		assert.Empty(t, *accepted)
	})

	t.Run("post mismatch", func(t *testing.T) {
		t.Parallel()
		commentRepo, postRepo, accepted := acceptFixture("helper", "asker")
		svc := NewCommentService(commentRepo, postRepo, noopViews(), nil)
		other := uint(11)
		err := svc.AcceptAnswer(ctx, AcceptAnswerInput{UserID: "asker", CommentID: 1, PostID: &other})
		assertAppError(t, err, "CONFLICT")
		assert.Empty(t, *accepted)
	})

	t.Run("not the post author", func(t *testing.T) {
		t.Parallel()
		commentRepo, postRepo, accepted := acceptFixture("helper", "asker")
		svc := NewCommentService(commentRepo, postRepo, noopViews(), nil)
		err := svc.AcceptAnswer(ctx, AcceptAnswerInput{UserID: "helper", CommentID: 1})
		assertUnauthorizedError(t, err)
		assert.Empty(t, *accepted)
	})
}

func TestCommentService_AcceptAnswer_Success(t *testing.T) {
	t.Parallel()

	commentRepo, postRepo, accepted := acceptFixture("helper", "asker")
	rec := newNotificationRecorder()
	svc := NewCommentService(commentRepo, postRepo, noopViews(), rec.service())

	postID := uint(10)
	require.NoError(t, svc.AcceptAnswer(context.Background(), AcceptAnswerInput{
		UserID: "asker", CommentID: 3, PostID: &postID,
	}))
	assert.Equal(t, [][2]uint{{3, 10}}, *accepted)

	require.Len(t, rec.sent, 1)
	n := rec.sent[0]
	assert.Equal(t, "helper", n.UserID)
	assert.Equal(t, "Your answer was accepted", n.Title)
	assert.Equal(t, "Congrats! Your answer was marked as the solution.", n.Body)
	assert.Equal(t, models.NotificationTypeAnswer, n.Type)
	require.NotNil(t, n.Link)
	assert.Equal(t, "/post/10", *n.Link)
}

func TestCommentService_AcceptAnswer_OwnAnswerNotNotified(t *testing.T) {
	t.Parallel()

	commentRepo, postRepo, accepted := acceptFixture("asker", "asker")
	rec := newNotificationRecorder()
	svc := NewCommentService(commentRepo, postRepo, noopViews(), rec.service())

	require.NoError(t, svc.AcceptAnswer(context.Background(), AcceptAnswerInput{UserID: "asker", CommentID: 3}))
	assert.Len(t, *accepted, 1)
	assert.Empty(t, rec.sent)
}

func TestCommentService_AcceptAnswer_RepoErrorPropagates(t *testing.T) {
	t.Parallel()

	commentRepo, postRepo, _ := acceptFixture("helper", "asker")
	repoErr := errors.New("tx aborted")
	commentRepo.acceptFn = func(_ context.Context, _, _ uint) error { return repoErr }
	rec := newNotificationRecorder()
	svc := NewCommentService(commentRepo, postRepo, noopViews(), rec.service())

	err := svc.AcceptAnswer(context.Background(), AcceptAnswerInput{UserID: "asker", CommentID: 3})
	assert.ErrorIs(t, err, repoErr)
	assert.Empty(t, rec.sent)
}
