package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"modernblog/internal/models"
	"modernblog/internal/pagination"

	"github.com/google/uuid"
)

// MockPostRepository is an in-memory implementation of PostRepository.
// Authors are joined from the given profile repository.
type MockPostRepository struct {
	posts    map[string]models.Post
	profiles ProfileRepository
	mu       sync.RWMutex
}

// NewMockPostRepository creates a new instance of MockPostRepository.
func NewMockPostRepository(profiles ProfileRepository) *MockPostRepository {
	return &MockPostRepository{
		posts:    make(map[string]models.Post),
		profiles: profiles,
	}
}

func matches(p models.Post, search string) bool {
	if search == "" {
		return true
	}
	term := searchText(search)
	return strings.Contains(searchText(p.Title), term) ||
		strings.Contains(searchText(p.Content), term)
}

func (r *MockPostRepository) withAuthor(ctx context.Context, p models.Post) models.Post {
	if r.profiles == nil {
		return p
	}
	if profile, err := r.profiles.GetByID(ctx, p.AuthorID); err == nil {
		p.Author = &models.Author{ID: profile.ID, Username: profile.Username, FullName: profile.FullName}
	}
	return p
}

// List returns one page of matching posts, newest first.
func (r *MockPostRepository) List(ctx context.Context, q ListQuery) ([]models.Post, int64, error) {
	r.mu.RLock()
	var matched []models.Post
	for _, p := range r.posts {
		if matches(p, q.Search) {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	from := pagination.Offset(q.Page, q.PageSize)
	if from > len(matched) {
		from = len(matched)
	}
	to := from + q.PageSize
	if to > len(matched) {
		to = len(matched)
	}

	page := make([]models.Post, 0, to-from)
	for _, p := range matched[from:to] {
		page = append(page, r.withAuthor(ctx, p))
	}
	return page, total, nil
}

// GetByID returns a post with its author.
func (r *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	p, ok := r.posts[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
	}
	p = r.withAuthor(ctx, p)
	return &p, nil
}

// Create adds a new post.
func (r *MockPostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}
	stored := *post
	stored.Author = nil
	r.posts[post.ID] = stored
	return nil
}

// Update modifies title, content and updated_at of a post owned by post.AuthorID.
func (r *MockPostRepository) Update(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.posts[post.ID]
	if !ok || existing.AuthorID != post.AuthorID {
		return fmt.Errorf("post with ID %s for author %s: %w", post.ID, post.AuthorID, ErrNotFound)
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = time.Now()
	}
	existing.Title = post.Title
	existing.Content = post.Content
	existing.UpdatedAt = post.UpdatedAt
	r.posts[post.ID] = existing
	return nil
}

// Delete removes the post if authorID owns it.
func (r *MockPostRepository) Delete(_ context.Context, id, authorID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.posts[id]
	if !ok || existing.AuthorID != authorID {
		return 0, nil
	}
	delete(r.posts, id)
	return 1, nil
}
