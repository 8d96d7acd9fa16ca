package box

import "errors"

// Decode failures wrap exactly one of these sentinels; match with
// errors.Is. Encoding never returns an error: a box tree that cannot be
// serialized consistently is an encoder bug and panics.
var (
	ErrTooSmall           = errors.New("buffer too small for box")
	ErrIncomplete         = errors.New("incomplete box")
	ErrWrongType          = errors.New("wrong box type")
	ErrSizeMismatch       = errors.New("box size mismatch")
	ErrUnsupportedVersion = errors.New("unsupported box version")
	ErrUnsupportedFlags   = errors.New("unsupported box flags")
	ErrDuplicateChild     = errors.New("duplicate child box")
	ErrMissingChild       = errors.New("missing required child box")
)
