package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"studyoverflow/internal/models"
	"studyoverflow/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options configure the demo seeder.
type Options struct {
	NumUsers        int
	PostsPerCourse  int
	CommentsPerPost int
	// MaxDays bounds how far back created_at values are spread.
	MaxDays int
	// Seed makes generated content reproducible when non-zero.
	Seed int64
}

// DefaultOptions returns a small but lively data set.
func DefaultOptions() Options {
	return Options{NumUsers: 25, PostsPerCourse: 3, CommentsPerPost: 4, MaxDays: 60}
}

// Factory builds domain entities and persists them through the repositories,
// so every cached aggregate stays consistent with its source rows.
type Factory struct {
	db       *gorm.DB
	opts     Options
	rng      *rand.Rand
	faker    *gofakeit.Faker
	comments repository.CommentRepository
	votes    repository.VoteRepository
	users    repository.UserRepository
	chats    repository.ChatRepository
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 60
	}
	return &Factory{
		db:       db,
		opts:     opts,
		rng:      rand.New(rand.NewSource(seed)),
		faker:    gofakeit.New(seed),
		comments: repository.NewCommentRepository(db),
		votes:    repository.NewVoteRepository(db),
		users:    repository.NewUserRepository(db),
		chats:    repository.NewChatRepository(db),
	}
}

// User creates a student profile with a random UUID identity.
func (f *Factory) User(ctx context.Context) (*models.User, error) {
	first, last := f.faker.FirstName(), f.faker.LastName()
	avatar := fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s+%s", first, last)
	bio := f.faker.Sentence(10)
	u := &models.User{
		ID:              uuid.NewString(),
		FirstName:       &first,
		LastName:        &last,
		ProfileImageURL: &avatar,
		Bio:             &bio,
	}
	if err := f.users.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// BuildPost constructs an unsaved question in courseID by authorID.
func (f *Factory) BuildPost(courseID uint, authorID string) *models.Post {
	title := fmt.Sprintf("How do I approach %s %s?", f.faker.HipsterWord(), f.faker.Noun())
	content := f.faker.Paragraph(1, 3, 12, " ")
	if len(content) < 20 {
		content += " Any pointers would be appreciated."
	}
	return &models.Post{
		CourseID:  courseID,
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: f.pastTime(),
	}
}

// Thread creates a post with a few answers, replies, votes and optionally an
// accepted answer.
func (f *Factory) Thread(ctx context.Context, courseID uint, users []*models.User) (*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("thread needs at least one user")
	}
	author := users[f.rng.Intn(len(users))]
	post := f.BuildPost(courseID, author.ID)
	if err := f.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}

	var created []*models.Comment
	for i := 0; i < f.opts.CommentsPerPost; i++ {
		c := &models.Comment{
			PostID:   post.ID,
			AuthorID: users[f.rng.Intn(len(users))].ID,
			Content:  f.faker.Sentence(12),
		}
		// Roughly a third of comments reply to an earlier one.
		if len(created) > 0 && f.rng.Intn(3) == 0 {
			parent := created[f.rng.Intn(len(created))]
			c.ParentID = &parent.ID
		}
		if err := f.comments.Create(ctx, c); err != nil {
			return nil, err
		}
		created = append(created, c)
	}

	for _, u := range users {
		if f.rng.Intn(4) != 0 {
			continue
		}
		if _, err := f.votes.Apply(ctx, models.SubjectPost, post.ID, u.ID, f.voteValue()); err != nil {
			return nil, err
		}
		for _, c := range created {
			if f.rng.Intn(3) != 0 {
				continue
			}
			if _, err := f.votes.Apply(ctx, models.SubjectComment, c.ID, u.ID, f.voteValue()); err != nil {
				return nil, err
			}
		}
	}

	if len(created) > 0 && f.rng.Intn(2) == 0 {
		answer := created[f.rng.Intn(len(created))]
		if err := f.comments.AcceptAnswer(ctx, answer.ID, post.ID); err != nil {
			return nil, err
		}
	}
	return post, nil
}

// StudyGroup creates a group chat for a course among up to five users, with
// a short conversation.
func (f *Factory) StudyGroup(ctx context.Context, course models.Course, users []*models.User) (*models.Chat, error) {
	if len(users) < 2 {
		return nil, fmt.Errorf("study group needs at least two users")
	}
	members := make([]string, 0, 5)
	for _, i := range f.rng.Perm(len(users)) {
		if len(members) == cap(members) {
			break
		}
		members = append(members, users[i].ID)
	}
	chat := &models.Chat{
		Name:      course.Code + " study group",
		IsGroup:   true,
		CreatedBy: members[0],
	}
	if err := f.chats.Create(ctx, chat, members); err != nil {
		return nil, err
	}
	sent := f.pastTime()
	for i := 0; i < 1+f.rng.Intn(4); i++ {
		sent = sent.Add(time.Duration(1+f.rng.Intn(90)) * time.Minute)
		msg := &models.ChatMessage{
			ChatID:    chat.ID,
			SenderID:  members[f.rng.Intn(len(members))],
			Content:   f.faker.Sentence(8),
			CreatedAt: sent,
		}
		if err := f.chats.AddMessage(ctx, msg); err != nil {
			return nil, err
		}
	}
	return chat, nil
}

func (f *Factory) voteValue() int {
	if f.rng.Intn(5) == 0 {
		return -1
	}
	return 1
}

func (f *Factory) pastTime() time.Time {
	d := time.Duration(f.rng.Intn(f.opts.MaxDays*24*60)) * time.Minute
	return time.Now().Add(-d)
}

// Demo seeds the catalogue plus generated users and discussion threads.
func Demo(ctx context.Context, db *gorm.DB, opts Options) error {
	if err := Catalog(db); err != nil {
		return err
	}

	f := NewFactory(db, opts)
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.User(ctx)
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, u)
	}
	if len(users) == 0 {
		log.Println("seed: no users requested, catalogue only")
		return nil
	}

	var courses []models.Course
	if err := db.WithContext(ctx).Order("id").Find(&courses).Error; err != nil {
		return err
	}

	threads := 0
	for _, c := range courses {
		for i := 0; i < opts.PostsPerCourse; i++ {
			if _, err := f.Thread(ctx, c.ID, users); err != nil {
				return fmt.Errorf("seed thread in %s: %w", c.Code, err)
			}
			threads++
		}
	}
	chats := 0
	if len(users) >= 2 {
		for _, c := range courses {
			if _, err := f.StudyGroup(ctx, c, users); err != nil {
				return fmt.Errorf("seed study group for %s: %w", c.Code, err)
			}
			chats++
		}
	}
	log.Printf("seed: %d users, %d threads and %d study groups across %d courses", len(users), threads, chats, len(courses))
	return nil
}
