// Package authz decides whether the caller may modify a post.
//
// The check is a convenience for callers deciding what to offer; the store
// scopes every update and delete by author independently of it.
package authz

import "modernblog/internal/session"

// IsAuthor reports whether the session identity owns a post written by authorID.
func IsAuthor(sess session.Context, authorID string) bool {
	id, ok := sess.Identity()
	if !ok {
		return false
	}
	return id.ID != "" && id.ID == authorID
}
