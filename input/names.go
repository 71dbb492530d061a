// Package input models action sets, actions and the simulated values
// applications read through them.
//
// Objects in this package are not safe for concurrent use. The runtime
// serializes access through its handle tables.
package input

import (
	"golang.org/x/text/unicode/norm"

	"github.com/davidrios/openxr-device-simulator/xr"
)

// MaxNameSize is the size of a name buffer including its terminator.
const MaxNameSize = 64

// MaxLocalizedNameSize is the size of a localized name buffer including
// its terminator.
const MaxLocalizedNameSize = 128

// ValidateName checks an action or action set name: non-empty, shorter than
// MaxNameSize, and made of lowercase letters, digits, '-', '_' and '.'.
func ValidateName(name string) error {
	if name == "" || len(name) >= MaxNameSize {
		return xr.Errorf(xr.ErrorNameInvalid, "", "name length %d", len(name))
	}
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == '.') {
			return xr.Errorf(xr.ErrorNameInvalid, "", "invalid character %q in %q", c, name)
		}
	}
	return nil
}

// ValidateLocalizedName checks a human readable name.
func ValidateLocalizedName(name string) error {
	if name == "" || len(name) >= MaxLocalizedNameSize {
		return xr.Errorf(xr.ErrorLocalizedNameInvalid, "", "localized name length %d", len(name))
	}
	return nil
}

// Names is the set of names and localized names used in one scope: the
// action sets of an instance or the actions of a set. Localized names are
// compared in Unicode normalization form C, so composed and decomposed
// spellings collide.
type Names struct {
	names     map[string]struct{}
	localized map[string]struct{}
}

// NewNames returns an empty scope.
func NewNames() *Names {
	return &Names{
		names:     make(map[string]struct{}),
		localized: make(map[string]struct{}),
	}
}

// Check validates both names and reports a duplicate in the scope.
func (n *Names) Check(name, localized string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateLocalizedName(localized); err != nil {
		return err
	}
	if _, ok := n.names[name]; ok {
		return xr.Errorf(xr.ErrorNameDuplicated, "", "name %q", name)
	}
	if _, ok := n.localized[norm.NFC.String(localized)]; ok {
		return xr.Errorf(xr.ErrorLocalizedNameDuplicated, "", "localized name %q", localized)
	}
	return nil
}

// Add records both names. Call Check first.
func (n *Names) Add(name, localized string) {
	n.names[name] = struct{}{}
	n.localized[norm.NFC.String(localized)] = struct{}{}
}

// Remove frees both names for reuse.
func (n *Names) Remove(name, localized string) {
	delete(n.names, name)
	delete(n.localized, norm.NFC.String(localized))
}

// Len returns the number of names in the scope.
func (n *Names) Len() int { return len(n.names) }
