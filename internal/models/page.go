package models

// PageResult is one fetched, filtered, paginated slice of posts.
type PageResult struct {
	Posts      []Post `json:"posts"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
	Search     string `json:"search,omitempty"`
}
