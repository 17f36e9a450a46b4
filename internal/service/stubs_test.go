package service

import (
	"context"
	"errors"
	"testing"

	"studyoverflow/internal/models"
	"studyoverflow/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]models.Comment, error)
	acceptFn     func(context.Context, uint, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) AcceptAnswer(ctx context.Context, commentID, postID uint) error {
	return s.acceptFn(ctx, commentID, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		acceptFn:     func(_ context.Context, _, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, repository.PostFilter) ([]models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter) ([]models.Post, error) {
	return s.listFn(ctx, filter)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(_ context.Context, _ repository.PostFilter) ([]models.Post, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn   func(context.Context, string) (*models.User, error)
	findByIDsFn func(context.Context, []string) ([]models.User, error)
	upsertFn    func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	return s.findByIDsFn(ctx, ids)
}
func (s *userRepoStub) Upsert(ctx context.Context, user *models.User) error {
	return s.upsertFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:   func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		findByIDsFn: func(_ context.Context, _ []string) ([]models.User, error) { return nil, nil },
		upsertFn:    func(_ context.Context, _ *models.User) error { return nil },
	}
}

// catalogRepoStub is a stub for repository.CatalogRepository.
type catalogRepoStub struct {
	listUniversitiesFn func(context.Context) ([]models.University, error)
	getUniversityFn    func(context.Context, uint) (*models.University, error)
	listCoursesFn      func(context.Context, *uint) ([]models.Course, error)
	getCourseFn        func(context.Context, uint) (*models.Course, error)
	findCoursesFn      func(context.Context, []uint) ([]models.Course, error)
	courseIDsFn        func(context.Context, uint) ([]uint, error)
}

func (s *catalogRepoStub) ListUniversities(ctx context.Context) ([]models.University, error) {
	return s.listUniversitiesFn(ctx)
}
func (s *catalogRepoStub) GetUniversity(ctx context.Context, id uint) (*models.University, error) {
	return s.getUniversityFn(ctx, id)
}
func (s *catalogRepoStub) ListCourses(ctx context.Context, universityID *uint) ([]models.Course, error) {
	return s.listCoursesFn(ctx, universityID)
}
func (s *catalogRepoStub) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	return s.getCourseFn(ctx, id)
}
func (s *catalogRepoStub) FindCoursesByIDs(ctx context.Context, ids []uint) ([]models.Course, error) {
	return s.findCoursesFn(ctx, ids)
}
func (s *catalogRepoStub) CourseIDsForUniversity(ctx context.Context, universityID uint) ([]uint, error) {
	return s.courseIDsFn(ctx, universityID)
}

func noopCatalogRepo() *catalogRepoStub {
	return &catalogRepoStub{
		listUniversitiesFn: func(_ context.Context) ([]models.University, error) { return nil, nil },
		getUniversityFn:    func(_ context.Context, id uint) (*models.University, error) { return &models.University{ID: id}, nil },
		listCoursesFn:      func(_ context.Context, _ *uint) ([]models.Course, error) { return nil, nil },
		getCourseFn:        func(_ context.Context, id uint) (*models.Course, error) { return &models.Course{ID: id}, nil },
		findCoursesFn:      func(_ context.Context, _ []uint) ([]models.Course, error) { return nil, nil },
		courseIDsFn:        func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	applyFn     func(context.Context, models.SubjectKind, uint, string, int) (*models.VoteResult, error)
	userVotesFn func(context.Context, models.SubjectKind, string, []uint) (map[uint]int, error)
}

func (s *voteRepoStub) Apply(ctx context.Context, kind models.SubjectKind, subjectID uint, userID string, value int) (*models.VoteResult, error) {
	return s.applyFn(ctx, kind, subjectID, userID, value)
}
func (s *voteRepoStub) UserVotes(ctx context.Context, kind models.SubjectKind, userID string, ids []uint) (map[uint]int, error) {
	return s.userVotesFn(ctx, kind, userID, ids)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		applyFn: func(_ context.Context, _ models.SubjectKind, _ uint, _ string, value int) (*models.VoteResult, error) {
			return &models.VoteResult{VoteCount: value, UserVote: &value}, nil
		},
		userVotesFn: func(_ context.Context, _ models.SubjectKind, _ string, _ []uint) (map[uint]int, error) {
			return map[uint]int{}, nil
		},
	}
}

// notificationRepoStub is a stub for repository.NotificationRepository.
type notificationRepoStub struct {
	createFn      func(context.Context, *models.Notification) error
	listFn        func(context.Context, string, int, int) ([]models.Notification, error)
	countUnreadFn func(context.Context, string) (int64, error)
	markReadFn    func(context.Context, string, []uint) (int64, error)
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) ListForUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	return s.listFn(ctx, userID, limit, offset)
}
func (s *notificationRepoStub) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.countUnreadFn(ctx, userID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, userID string, ids []uint) (int64, error) {
	return s.markReadFn(ctx, userID, ids)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn:      func(_ context.Context, _ *models.Notification) error { return nil },
		listFn:        func(_ context.Context, _ string, _, _ int) ([]models.Notification, error) { return nil, nil },
		countUnreadFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
		markReadFn:    func(_ context.Context, _ string, _ []uint) (int64, error) { return 0, nil },
	}
}

// chatRepoStub is a stub for repository.ChatRepository.
type chatRepoStub struct {
	createFn       func(context.Context, *models.Chat, []string) error
	getByIDFn      func(context.Context, uint) (*models.Chat, error)
	listForUserFn  func(context.Context, string) ([]models.Chat, error)
	addMessageFn   func(context.Context, *models.ChatMessage) error
	listMessagesFn func(context.Context, uint, int, int) ([]models.ChatMessage, error)
}

func (s *chatRepoStub) Create(ctx context.Context, chat *models.Chat, memberIDs []string) error {
	return s.createFn(ctx, chat, memberIDs)
}
func (s *chatRepoStub) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	return s.getByIDFn(ctx, id)
}
func (s *chatRepoStub) ListForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	return s.listForUserFn(ctx, userID)
}
func (s *chatRepoStub) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	return s.addMessageFn(ctx, msg)
}
func (s *chatRepoStub) ListMessages(ctx context.Context, chatID uint, limit, offset int) ([]models.ChatMessage, error) {
	return s.listMessagesFn(ctx, chatID, limit, offset)
}

func noopChatRepo() *chatRepoStub {
	return &chatRepoStub{
		createFn: func(_ context.Context, _ *models.Chat, _ []string) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Chat, error) {
			return nil, models.NewNotFoundError("Chat", id)
		},
		listForUserFn: func(_ context.Context, _ string) ([]models.Chat, error) { return nil, nil },
		addMessageFn:  func(_ context.Context, _ *models.ChatMessage) error { return nil },
		listMessagesFn: func(_ context.Context, _ uint, _, _ int) ([]models.ChatMessage, error) {
			return nil, nil
		},
	}
}

func noopViews() *ViewComposer {
	return NewViewComposer(noopUserRepo(), noopCatalogRepo(), noopVoteRepo())
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, "VALIDATION_ERROR")
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, "UNAUTHORIZED")
}
