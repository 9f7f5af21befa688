package services

import "github.com/rivo/uniseg"

// ExcerptLength is the number of user-perceived characters kept in a listing preview.
const ExcerptLength = 150

// Excerpt returns the first n grapheme clusters of content, followed by "..."
// when content is longer.
func Excerpt(content string, n int) string {
	if uniseg.GraphemeClusterCount(content) <= n {
		return content
	}

	g := uniseg.NewGraphemes(content)
	end := 0
	for i := 0; i < n && g.Next(); i++ {
		_, end = g.Positions()
	}
	return content[:end] + "..."
}
