package session_test

import (
	"testing"

	"modernblog/internal/models"
	"modernblog/internal/session"

	"github.com/stretchr/testify/assert"
)

func TestContext(t *testing.T) {
	anon := session.Anonymous()
	assert.False(t, anon.Authenticated())
	assert.Empty(t, anon.UserID())
	_, ok := anon.Identity()
	assert.False(t, ok)

	var zero session.Context
	assert.Equal(t, anon, zero)

	id := models.Identity{ID: "user-1", Email: "a@example.com"}
	sess := session.WithIdentity(id)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "user-1", sess.UserID())

	got, ok := sess.Identity()
	assert.True(t, ok)
	assert.Equal(t, id, got)

	// Mutating the returned copy must not leak into the session.
	got.ID = "someone-else"
	assert.Equal(t, "user-1", sess.UserID())
}

func TestHub_SubscribeAndUnsubscribe(t *testing.T) {
	hub := session.NewHub()

	var order []string
	unsubA := hub.Subscribe(func(ev session.Event) { order = append(order, "a:"+string(ev.Kind)) })
	unsubB := hub.Subscribe(func(ev session.Event) { order = append(order, "b:"+string(ev.Kind)) })

	hub.Publish(session.Event{Kind: session.SignedIn, Session: session.WithIdentity(models.Identity{ID: "u"})})
	assert.Equal(t, []string{"a:signed_in", "b:signed_in"}, order)

	unsubA()
	unsubA() // idempotent
	hub.Publish(session.Event{Kind: session.SignedOut})
	assert.Equal(t, []string{"a:signed_in", "b:signed_in", "b:signed_out"}, order)

	unsubB()
	hub.Publish(session.Event{Kind: session.SignedIn})
	assert.Len(t, order, 3)
}

func TestHub_PublishStampsTime(t *testing.T) {
	hub := session.NewHub()
	var got session.Event
	hub.Subscribe(func(ev session.Event) { got = ev })

	hub.Publish(session.Event{Kind: session.SignedOut})
	assert.False(t, got.At.IsZero())
}
