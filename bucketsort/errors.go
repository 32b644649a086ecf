package bucketsort

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidRange is reported when the declared upper bound is below the
	// lower bound, or when either bound is NaN.
	ErrInvalidRange = errors.New("invalid key range")

	// ErrKeyOutOfRange is reported when an item's key falls outside the
	// declared range.
	ErrKeyOutOfRange = errors.New("key out of range")

	// ErrCastOverflow is reported when a key offset, or the span of the range
	// itself, cannot be cast to a bucket index without loss.
	ErrCastOverflow = errors.New("key offset not representable as an index")
)

// Error describes why a sort was refused. No output is produced alongside an
// Error.
//
// Use errors.Is with one of the sentinel errors to classify the failure, or
// errors.As to inspect the offending item.
type Error struct {
	// Index is the position of the offending item in the input, or -1 when
	// the declared range itself is unusable.
	Index int

	// Key is the offending item's key. It is nil when Index is -1.
	Key any

	// Min and Max are the declared bounds of the sort.
	Min, Max any

	// Err is one of ErrInvalidRange, ErrKeyOutOfRange or ErrCastOverflow.
	Err error
}

func (e *Error) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("bucketsort: range [%v, %v]: %v", e.Min, e.Max, e.Err)
	}
	return fmt.Sprintf("bucketsort: item %d: key %v in range [%v, %v]: %v", e.Index, e.Key, e.Min, e.Max, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func rangeError[K Key](lo, hi K, err error) error {
	return errors.WithStack(&Error{Index: -1, Min: lo, Max: hi, Err: err})
}

func keyError[K Key](i int, k, lo, hi K, err error) error {
	return errors.WithStack(&Error{Index: i, Key: k, Min: lo, Max: hi, Err: err})
}
