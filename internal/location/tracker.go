package location

import "sync/atomic"

// RequestTracker hands out generation tokens for callers that keep a
// single "current" query at a time. A resolution started later always
// gets a higher token, so a completed call can check Current before
// committing its result and discard a late-arriving response that was
// superseded by a newer query.
type RequestTracker struct {
	gen atomic.Uint64
}

// Begin marks a new request as the current one and returns its token.
func (t *RequestTracker) Begin() uint64 {
	return t.gen.Add(1)
}

// Current reports whether token still identifies the latest request.
func (t *RequestTracker) Current(token uint64) bool {
	return t.gen.Load() == token
}
