package threads

import "sync/atomic"

// CancelToken is a one-way cooperative cancellation flag. Cancellation
// is advisory: no primitive in this package observes a token on its
// own, so blocking loops must poll [CancelToken.Check] or
// [CancelToken.ThrowIfCancelled] themselves.
//
// Tokens form trees via [CancelToken.Linked]: cancelling a parent
// cancels every descendant, while cancelling a child leaves the parent
// untouched.
type CancelToken struct {
	cancelled atomic.Bool
	parent    *CancelToken
}

// NewCancelToken creates an uncancelled root token.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel flips the token to cancelled. Irreversible and idempotent.
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// Check reports whether this token or any ancestor has been cancelled.
func (t *CancelToken) Check() bool {
	for c := t; c != nil; c = c.parent {
		if c.cancelled.Load() {
			return true
		}
	}
	return false
}

// Linked creates a child token that also reports cancelled whenever
// this token (or any of its ancestors) is cancelled.
func (t *CancelToken) Linked() *CancelToken {
	return &CancelToken{parent: t}
}

// ThrowIfCancelled panics if [CancelToken.Check] is true.
func (t *CancelToken) ThrowIfCancelled() {
	if t.Check() {
		panic("threads: CancelToken: operation cancelled")
	}
}
