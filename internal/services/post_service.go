package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"modernblog/internal/authz"
	"modernblog/internal/models"
	"modernblog/internal/pagination"
	"modernblog/internal/repositories"
	"modernblog/internal/session"

	"github.com/go-playground/validator/v10"
)

// PageSize is the number of posts per listing page.
const PageSize = 6

// PostService handles business logic related to posts.
type PostService struct {
	repo     repositories.PostRepository
	events   EventPublisher
	validate *validator.Validate
	now      func() time.Time
}

// NewPostService creates a new PostService. events may be nil.
func NewPostService(repo repositories.PostRepository, events EventPublisher) *PostService {
	return &PostService{
		repo:     repo,
		events:   events,
		validate: newValidator(),
		now:      time.Now,
	}
}

// List returns one page of posts, newest first, optionally filtered by a
// case-insensitive substring of title or content.
func (s *PostService) List(ctx context.Context, page int, search string) (*models.PageResult, error) {
	if page < 1 {
		return nil, &ValidationError{Fields: map[string]string{"page": "Page must be at least 1"}}
	}
	search = strings.TrimSpace(search)

	posts, total, err := s.repo.List(ctx, repositories.ListQuery{
		Page:     page,
		PageSize: PageSize,
		Search:   search,
	})
	if err != nil {
		log.Printf("Error fetching blogs (page %d, search %q): %v", page, search, err)
		return nil, &StoreError{Op: "fetch blogs", Err: err}
	}

	for i := range posts {
		posts[i].Excerpt = Excerpt(posts[i].Content, ExcerptLength)
	}

	return &models.PageResult{
		Posts:      posts,
		Total:      total,
		Page:       page,
		PageSize:   PageSize,
		TotalPages: pagination.TotalPages(total, PageSize),
		Search:     search,
	}, nil
}

// Get retrieves a single post with its author.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Printf("Error fetching blog %s: %v", id, err)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
		}
		return nil, &StoreError{Op: "fetch blog", Err: err}
	}
	return post, nil
}

// GetForEdit loads a post for editing and rejects callers who did not write it.
func (s *PostService) GetForEdit(ctx context.Context, sess session.Context, id string) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.IsAuthor(sess, post.AuthorID) {
		log.Printf("User %q tried to edit blog %s owned by %s", sess.UserID(), id, post.AuthorID)
		return nil, fmt.Errorf("post %s: %w", id, ErrForbidden)
	}
	return post, nil
}

// Create publishes a new post written by author.
func (s *PostService) Create(ctx context.Context, author models.Identity, in models.PostInput) (*models.Post, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: author.ID,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		log.Printf("Error saving blog for %s: %v", author.ID, err)
		return nil, &StoreError{Op: "save blog", Err: err}
	}

	publishEvent(s.events, EventPostCreated, map[string]interface{}{
		"postID":   post.ID,
		"authorID": post.AuthorID,
	})
	return post, nil
}

// Update replaces title and content of a post and returns the stored row with
// its author. Ownership is enforced by the store, which only updates rows
// written by author.
func (s *PostService) Update(ctx context.Context, author models.Identity, id string, in models.PostInput) (*models.Post, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        id,
		Title:     in.Title,
		Content:   in.Content,
		AuthorID:  author.ID,
		UpdatedAt: s.now(),
	}
	if err := s.repo.Update(ctx, post); err != nil {
		log.Printf("Error updating blog %s for %s: %v", id, author.ID, err)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
		}
		return nil, &StoreError{Op: "save blog", Err: err}
	}

	publishEvent(s.events, EventPostUpdated, map[string]interface{}{
		"postID":   post.ID,
		"authorID": post.AuthorID,
	})

	saved, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// The write went through; answer with what was written.
		log.Printf("Error reloading blog %s after update: %v", id, err)
		return post, nil
	}
	return saved, nil
}

// Delete removes a post only when author wrote it. A request for a post the
// caller does not own removes nothing and still succeeds.
func (s *PostService) Delete(ctx context.Context, author models.Identity, id string) error {
	n, err := s.repo.Delete(ctx, id, author.ID)
	if err != nil {
		log.Printf("Error deleting blog %s for %s: %v", id, author.ID, err)
		return &StoreError{Op: "delete blog", Err: err}
	}
	if n == 0 {
		log.Printf("Delete of blog %s by %s matched no rows", id, author.ID)
		return nil
	}

	publishEvent(s.events, EventPostDeleted, map[string]interface{}{
		"postID":   id,
		"authorID": author.ID,
	})
	return nil
}
