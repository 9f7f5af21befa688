package blogclient_test

import (
	"errors"
	"testing"

	"modernblog/pkg/blogclient"

	"github.com/stretchr/testify/assert"
)

func TestDeleteConfirmation(t *testing.T) {
	var d blogclient.DeleteConfirmation
	calls := 0
	del := func() error { calls++; return nil }

	assert.ErrorIs(t, d.Commit(del), blogclient.ErrNotArmed)
	assert.Equal(t, 0, calls)

	d.Arm()
	assert.True(t, d.Armed())
	d.Cancel()
	assert.False(t, d.Armed())
	assert.ErrorIs(t, d.Commit(del), blogclient.ErrNotArmed)

	d.Arm()
	assert.NoError(t, d.Commit(del))
	assert.Equal(t, 1, calls)
	assert.False(t, d.Armed())

	d.Arm()
	assert.EqualError(t, d.Commit(func() error { return errors.New("failed") }), "failed")
}
