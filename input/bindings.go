package input

import (
	"strings"

	"github.com/davidrios/openxr-device-simulator/xr"
)

// SuggestedBinding ties an action to an input source path.
type SuggestedBinding struct {
	Action  xr.Action
	Binding xr.Path
}

const profilePrefix = "/interaction_profiles/"

// CheckProfilePath verifies s names an interaction profile.
func CheckProfilePath(s string) error {
	if !strings.HasPrefix(s, profilePrefix) || strings.Count(s[len(profilePrefix):], "/") != 1 {
		return xr.Errorf(xr.ErrorPathUnsupported, "", "%q is not an interaction profile", s)
	}
	return nil
}

// CheckBindingPath verifies s names an input source under a user path.
func CheckBindingPath(s string) error {
	if !strings.HasPrefix(s, "/user/") || !strings.Contains(s, "/input/") && !strings.Contains(s, "/output/") {
		return xr.Errorf(xr.ErrorPathUnsupported, "", "%q is not an input or output source", s)
	}
	return nil
}

// Bindings holds the latest suggestion per interaction profile. A new
// suggestion for a profile replaces the previous one.
type Bindings struct {
	byProfile map[xr.Path][]SuggestedBinding
}

// NewBindings returns an empty set of suggestions.
func NewBindings() *Bindings {
	return &Bindings{byProfile: make(map[xr.Path][]SuggestedBinding)}
}

// Suggest stores list for profile.
func (b *Bindings) Suggest(profile xr.Path, list []SuggestedBinding) {
	b.byProfile[profile] = append([]SuggestedBinding(nil), list...)
}

// Profile returns the suggestion for profile.
func (b *Bindings) Profile(profile xr.Path) []SuggestedBinding {
	return b.byProfile[profile]
}

// Forget drops every binding that refers to action.
func (b *Bindings) Forget(action xr.Action) {
	for p, list := range b.byProfile {
		kept := list[:0]
		for _, sb := range list {
			if sb.Action != action {
				kept = append(kept, sb)
			}
		}
		b.byProfile[p] = kept
	}
}

// Len returns the number of profiles with suggestions.
func (b *Bindings) Len() int { return len(b.byProfile) }
