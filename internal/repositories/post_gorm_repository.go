package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modernblog/internal/models"
	"modernblog/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

func (r *GORMPostRepository) filtered(ctx context.Context, search string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if search != "" {
		p := likePattern(search)
		q = q.Where(`title_search LIKE ? ESCAPE '\' OR content_search LIKE ? ESCAPE '\'`, p, p)
	}
	return q
}

func preloadAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "username", "full_name")
	})
}

// List returns one page of posts, newest first, and the number of posts
// matching the search regardless of the page.
func (r *GORMPostRepository) List(ctx context.Context, q ListQuery) ([]models.Post, int64, error) {
	var total int64
	if err := r.filtered(ctx, q.Search).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	posts := make([]models.Post, 0, q.PageSize)
	err := preloadAuthor(r.filtered(ctx, q.Search)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(pagination.Offset(q.Page, q.PageSize)).
		Limit(q.PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, total, nil
}

// GetByID retrieves a single post with its author.
func (r *GORMPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := preloadAuthor(r.db.WithContext(ctx)).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, err)
	}
	return &post, nil
}

// Create inserts a post. ID and timestamps are assigned here.
func (r *GORMPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	post.TitleSearch = searchText(post.Title)
	post.ContentSearch = searchText(post.Content)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// Update writes title, content and updated_at of a post owned by post.AuthorID.
func (r *GORMPostRepository) Update(ctx context.Context, post *models.Post) error {
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = time.Now()
	}
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND author_id = ?", post.ID, post.AuthorID).
		Updates(map[string]interface{}{
			"title":          post.Title,
			"content":        post.Content,
			"title_search":   searchText(post.Title),
			"content_search": searchText(post.Content),
			"updated_at":     post.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post with ID %s for author %s: %w", post.ID, post.AuthorID, ErrNotFound)
	}
	return nil
}

// Delete removes the post only if authorID owns it and reports the number of
// rows removed.
func (r *GORMPostRepository) Delete(ctx context.Context, id, authorID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&models.Post{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete post: %w", res.Error)
	}
	return res.RowsAffected, nil
}
