// Package twocall implements the two-call enumeration idiom: a call with
// zero capacity reports the element count, a call with exactly that
// capacity fills the output.
package twocall

import "github.com/davidrios/openxr-device-simulator/xr"

// Fill copies items into out following the two-call idiom and returns the
// element count.
//
// A capacity of zero only reports the count. Any other capacity must equal
// len(items) or the call fails with ErrorSizeInsufficient, and out must hold
// at least capacity elements.
func Fill[T any](items []T, capacity uint32, out []T) (uint32, error) {
	count := uint32(len(items))
	if capacity == 0 {
		return count, nil
	}
	if capacity != count {
		return count, xr.ErrorSizeInsufficient
	}
	if uint32(len(out)) < capacity {
		return count, xr.ErrorValidationFailure
	}
	copy(out, items)
	return count, nil
}

// FillString writes s plus a terminating NUL into buf. The count includes
// the terminator.
func FillString(s string, capacity uint32, buf []byte) (uint32, error) {
	items := make([]byte, len(s)+1)
	copy(items, s)
	return Fill(items, capacity, buf)
}
