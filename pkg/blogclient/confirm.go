package blogclient

import (
	"errors"
	"sync"
)

// ErrNotArmed is returned by Commit when the delete was not confirmed first.
var ErrNotArmed = errors.New("blogclient: delete not confirmed")

// DeleteConfirmation is the two-step delete: Arm shows the prompt, Commit runs
// the delete, Cancel hides the prompt. It never times out.
type DeleteConfirmation struct {
	mu    sync.Mutex
	armed bool
}

// Arm asks for confirmation.
func (d *DeleteConfirmation) Arm() {
	d.mu.Lock()
	d.armed = true
	d.mu.Unlock()
}

// Cancel withdraws the request.
func (d *DeleteConfirmation) Cancel() {
	d.mu.Lock()
	d.armed = false
	d.mu.Unlock()
}

// Armed reports whether the prompt is showing.
func (d *DeleteConfirmation) Armed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Commit runs del if armed and disarms. Without a prior Arm del is not called.
func (d *DeleteConfirmation) Commit(del func() error) error {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return ErrNotArmed
	}
	d.armed = false
	d.mu.Unlock()

	return del()
}
