package seed

import (
	"fmt"
	"time"
	"unicode/utf8"

	"blogapi/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Factory builds blog entities with fake content and persists them.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	now   time.Time
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a Factory bound to db. A zero Options.RandSeed seeds
// from the clock.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		db:     db,
		opts:   opts,
		faker:  gofakeit.New(seed),
		now:    time.Now(),
		nextID: 1000,
	}
}

// BuildUser constructs an unsaved user. n keeps usernames unique within a run.
func (f *Factory) BuildUser(n int) (*models.User, error) {
	user := &models.User{
		Username: fmt.Sprintf("%s%d", f.faker.Username(), n),
		Email:    f.faker.Email(),
	}

	cost := bcrypt.DefaultCost
	if f.opts.FastHash {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hash)
	return user, nil
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(n int) (*models.User, error) {
	user, err := f.BuildUser(n)
	if err != nil {
		return nil, err
	}
	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs an unsaved post by author with a created_at spread
// over the last MaxDays days.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	created := f.pastTime()
	return &models.Post{
		Title:     truncate(f.faker.Sentence(f.faker.Number(3, 8)), models.MaxTitleLength),
		Content:   f.faker.Paragraph(1, 4, 12, "\n\n"),
		AuthorID:  author.ID,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// CreatePostsBatch persists posts in a single insert.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		return nil
	}
	return f.db.Omit("Author", "Comments").Create(&posts).Error
}

// BuildComment constructs an unsaved comment on post. It is never older
// than the post itself.
func (f *Factory) BuildComment(post *models.Post, author *models.User) *models.Comment {
	created := post.CreatedAt
	if span := f.now.Sub(post.CreatedAt); span > time.Minute {
		created = created.Add(time.Duration(f.faker.Number(0, int(span/time.Minute))) * time.Minute)
	}
	return &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Content:   f.faker.Sentence(f.faker.Number(4, 20)),
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// CreateCommentsBatch persists comments in a single insert.
func (f *Factory) CreateCommentsBatch(comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, c := range comments {
			f.nextID++
			c.ID = f.nextID
		}
		return nil
	}
	return f.db.Omit("Author").Create(&comments).Error
}

func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute
	return f.now.Add(-back)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
