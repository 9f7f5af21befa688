// Package pagination computes page ranges, page counts and the abbreviated
// page-number sequence shown to readers.
package pagination

import (
	"encoding/json"
	"fmt"
)

// MaxPagesShown is the largest page count rendered without ellipses.
const MaxPagesShown = 5

// Token is one entry of the page-number sequence: a page number or an ellipsis.
type Token struct {
	Page     int
	Ellipsis bool
}

// PageToken returns a token for page n.
func PageToken(n int) Token { return Token{Page: n} }

// EllipsisToken returns the marker for omitted page numbers.
func EllipsisToken() Token { return Token{Ellipsis: true} }

func (t Token) String() string {
	if t.Ellipsis {
		return "..."
	}
	return fmt.Sprint(t.Page)
}

// MarshalJSON encodes a page as a number and the ellipsis as "ellipsis".
func (t Token) MarshalJSON() ([]byte, error) {
	if t.Ellipsis {
		return []byte(`"ellipsis"`), nil
	}
	return json.Marshal(t.Page)
}

// UnmarshalJSON accepts a number or the string "ellipsis".
func (t *Token) UnmarshalJSON(b []byte) error {
	if string(b) == `"ellipsis"` {
		*t = EllipsisToken()
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid page token %s: %w", b, err)
	}
	*t = PageToken(n)
	return nil
}

// Range returns the inclusive row indexes covered by a 1-based page.
func Range(page, size int) (from, to int) {
	from = (page - 1) * size
	return from, from + size - 1
}

// Offset returns the number of rows preceding a 1-based page.
func Offset(page, size int) int {
	from, _ := Range(page, size)
	return from
}

// TotalPages returns ceil(total/size), never less than 1.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		return 1
	}
	return pages
}

// Pages returns the page-number sequence for the current page.
func Pages(current, total int) []Token {
	var tokens []Token

	switch {
	case total <= MaxPagesShown:
		for i := 1; i <= total; i++ {
			tokens = append(tokens, PageToken(i))
		}
	case current <= 3:
		for i := 1; i <= 4; i++ {
			tokens = append(tokens, PageToken(i))
		}
		tokens = append(tokens, EllipsisToken(), PageToken(total))
	case current >= total-2:
		tokens = append(tokens, PageToken(1), EllipsisToken())
		for i := total - 3; i <= total; i++ {
			tokens = append(tokens, PageToken(i))
		}
	default:
		tokens = append(tokens, PageToken(1), EllipsisToken())
		for i := current - 1; i <= current+1; i++ {
			tokens = append(tokens, PageToken(i))
		}
		tokens = append(tokens, EllipsisToken(), PageToken(total))
	}

	return tokens
}

// Controls describes the pagination widget for one listing.
type Controls struct {
	Visible      bool    `json:"visible"`
	Current      int     `json:"current"`
	Total        int     `json:"total"`
	PrevDisabled bool    `json:"prev_disabled"`
	NextDisabled bool    `json:"next_disabled"`
	Pages        []Token `json:"pages,omitempty"`
}

// NewControls builds the controls; nothing is shown for a single page.
func NewControls(current, total int) Controls {
	if total <= 1 {
		return Controls{Current: current, Total: total}
	}
	return Controls{
		Visible:      true,
		Current:      current,
		Total:        total,
		PrevDisabled: current == 1,
		NextDisabled: current >= total,
		Pages:        Pages(current, total),
	}
}
