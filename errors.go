package packetnet

// errors.go collects the sentinel error kinds raised by construction-time
// and accessor-level failures in the core model. Runtime packet-processing
// faults (capacity exhaustion, missing route, expired deadline, and so on)
// never produce an error value here; they are recovered locally and
// accounted for in counters, per the drop/timeout accounting on Router and
// Terminal.

import "github.com/pkg/errors"

// ErrInvalidArgument is returned by constructors given malformed input:
// a malformed address, a zero page length, a capacity smaller than the
// current size, a terminal whose router id doesn't match its router.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrEmpty is returned by Dequeue on an empty Buffer.
var ErrEmpty = errors.New("buffer empty")

// ErrOutOfRange is returned by list-style accessors given an invalid index.
var ErrOutOfRange = errors.New("index out of range")

// ErrIncompletePackage is returned by Reassembler.Package when the
// reassembler has not yet received every fragment.
var ErrIncompletePackage = errors.New("reassembler incomplete")

// invalidArgf wraps ErrInvalidArgument with a formatted message, the way
// the rest of the pack wraps sentinel errors with context via pkg/errors.
func invalidArgf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
