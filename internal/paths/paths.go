// Package paths interns semantic path strings for an instance.
package paths

import (
	"fmt"
	"strings"
	"sync"

	"github.com/davidrios/openxr-device-simulator/xr"
)

const (
	// MaxLength is the longest accepted path, excluding the terminator.
	MaxLength = 255
	// MaxCount bounds the number of distinct paths one table holds.
	MaxCount = 1 << 16
)

// Top-level user paths that may be used as subaction paths.
const (
	UserHead      = "/user/head"
	UserHandLeft  = "/user/hand/left"
	UserHandRight = "/user/hand/right"
	UserGamepad   = "/user/gamepad"
)

var topLevel = []string{UserHead, UserHandLeft, UserHandRight, UserGamepad}

// Table maps path strings to ids and back. Equal strings share an id.
// It is safe for concurrent use.
type Table struct {
	mu       sync.RWMutex
	byID     map[xr.Path]string
	byString map[string]xr.Path
	last     xr.Path
}

// New returns an empty table.
func New() *Table {
	return &Table{
		byID:     make(map[xr.Path]string),
		byString: make(map[string]xr.Path),
	}
}

// Intern returns the id for s, assigning one if s is new.
func (t *Table) Intern(s string) (xr.Path, error) {
	if err := Validate(s); err != nil {
		return xr.NullPath, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.byString[s]; ok {
		return p, nil
	}
	if len(t.byID) >= MaxCount {
		return xr.NullPath, xr.ErrorPathCountExceeded
	}
	t.last++
	t.byID[t.last] = s
	t.byString[s] = t.last
	return t.last, nil
}

// String returns the string behind p.
func (t *Table) String(p xr.Path) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.byID[p]
	if !ok {
		return "", xr.ErrorPathInvalid
	}
	return s, nil
}

// Len returns the number of interned paths.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}

// Validate checks the well-formedness rules for a path string: a leading
// slash, no trailing slash, non-empty segments of [a-z0-9-_.] that are not
// made only of periods.
func Validate(s string) error {
	if len(s) < 2 || len(s) > MaxLength || s[0] != '/' || s[len(s)-1] == '/' {
		return xr.Errorf(xr.ErrorPathFormatInvalid, "", "malformed path %q", s)
	}
	for _, seg := range strings.Split(s[1:], "/") {
		if seg == "" {
			return xr.Errorf(xr.ErrorPathFormatInvalid, "", "empty segment in %q", s)
		}
		if strings.Trim(seg, ".") == "" {
			return xr.Errorf(xr.ErrorPathFormatInvalid, "", "dot segment in %q", s)
		}
		for _, c := range seg {
			if !isPathChar(c) {
				return xr.Errorf(xr.ErrorPathFormatInvalid, "", "invalid character %q in %q", c, s)
			}
		}
	}
	return nil
}

func isPathChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == '.'
}

// IsTopLevelUser reports whether s is one of the top-level user paths that
// can filter an action.
func IsTopLevelUser(s string) bool {
	for _, p := range topLevel {
		if s == p {
			return true
		}
	}
	return false
}

// CheckSubaction resolves p and verifies it names a top-level user path.
func (t *Table) CheckSubaction(p xr.Path) (string, error) {
	s, err := t.String(p)
	if err != nil {
		return "", err
	}
	if !IsTopLevelUser(s) {
		return "", fmt.Errorf("subaction path %q: %w", s, xr.ErrorPathUnsupported)
	}
	return s, nil
}
