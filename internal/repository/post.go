package repository

import (
	"context"

	"socialmedia/internal/models"
	"socialmedia/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// Save requires a persisted author for new posts; it returns
	// models.ErrTransientReference otherwise. A saved post without an
	// author keeps a NULL owner.
	Save(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	FindAll(ctx context.Context) ([]*models.Post, error)
	Delete(ctx context.Context, p *models.Post) error
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger(postsTable)}
}

func (r *postRepository) Save(ctx context.Context, p *models.Post) (err error) {
	ctx, end := instrument(ctx, postsTable, "save")
	defer end(&err)

	author := p.Author()
	switch {
	case author != nil && author.ID == 0:
		return models.ErrTransientReference
	case author == nil && p.ID == 0:
		return models.ErrTransientReference
	case author != nil:
		id := author.ID
		p.UserID = &id
	default:
		p.UserID = nil
	}

	db := r.db.WithContext(ctx)
	if p.ID == 0 {
		if err := db.Create(p).Error; err != nil {
			r.log.LogError(ctx, err, "create")
			return models.NewInternalError(err)
		}
		r.log.LogWrite(ctx, "create", p.ID)
		return nil
	}

	res := db.Model(p).Select("content", "user_id", "updated_at").Updates(p)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", p.ID)
	}
	r.log.LogWrite(ctx, "update", p.ID)
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (p *models.Post, err error) {
	ctx, end := instrument(ctx, postsTable, "find_by_id")
	defer end(&err)

	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	if err := r.linkAuthors(ctx, []*models.Post{&post}); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) FindAll(ctx context.Context) (posts []*models.Post, err error) {
	ctx, end := instrument(ctx, postsTable, "find_all")
	defer end(&err)

	if err := r.db.WithContext(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.linkAuthors(ctx, posts); err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) linkAuthors(ctx context.Context, posts []*models.Post) error {
	authors, err := loadUsers(ctx, r.db, posts, func(p *models.Post) *uint { return p.UserID })
	if err != nil {
		return err
	}
	for _, p := range posts {
		if p.UserID != nil {
			models.AssignAuthor(p, authors[*p.UserID])
		}
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, p *models.Post) (err error) {
	ctx, end := instrument(ctx, postsTable, "delete")
	defer end(&err)

	if p.ID == 0 {
		return models.ErrTransientReference
	}
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, p.ID).Error; err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}

	models.AssignAuthor(p, nil)
	r.log.LogWrite(ctx, "delete", p.ID)
	return nil
}
