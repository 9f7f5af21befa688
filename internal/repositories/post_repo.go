package repositories

import (
	"context"
	"strings"

	"modernblog/internal/models"
)

// ListQuery selects one page of posts.
type ListQuery struct {
	Page     int // 1-based
	PageSize int
	Search   string
}

// PostRepository defines data access for posts.
//
// Update and Delete only touch rows whose author_id matches the post's
// AuthorID (respectively authorID), mirroring a row-level ownership policy.
// This scoping is the store's policy; callers do not check ownership first.
type PostRepository interface {
	List(ctx context.Context, q ListQuery) ([]models.Post, int64, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id, authorID string) (int64, error)
}

// searchText is the form of title and content that search terms are matched
// against. SQL LOWER only folds ASCII in SQLite, so the folding happens here.
func searchText(s string) string {
	return strings.ToLower(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a search term into a case-insensitive substring pattern
// with LIKE wildcards escaped.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(searchText(term)) + "%"
}
