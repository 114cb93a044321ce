package link

import "errors"

// ErrNoAdapter indicates that no adapter is registered for the requested
// (element item kind, edge item kind) pair. During interactive use this is
// unreachable because Glue already returned false for the pair.
var ErrNoAdapter = errors.New("no connection adapter registered for item pair")

// ErrNotGlued indicates a Connect attempt the adapter's Glue check refuses.
// Feasibility is never reported through errors during hover; this error only
// surfaces when a caller skips the glue phase.
var ErrNotGlued = errors.New("connection rejected by glue check")
