package linkcheck

import (
	"strings"

	"github.com/lukemcguire/linklint/result"
)

// IDIndex answers how many elements of a document carry an id.
// *document.Document satisfies it.
type IDIndex interface {
	CountID(id string) int
}

// AnchorMatch is the outcome of looking up a fragment.
type AnchorMatch struct {
	ID    string // Fragment without the leading '#'
	Count int    // Elements carrying that id
}

// Code returns the finding code for the match, or false when exactly one
// element matched.
func (m AnchorMatch) Code() (result.Code, bool) {
	switch {
	case m.Count == 0:
		return result.CodeNoAnchor, true
	case m.Count > 1:
		return result.CodeMultipleAnchor, true
	default:
		return 0, false
	}
}

// ResolveAnchor strips a leading '#' from fragment and counts the elements
// with that id in index. Pass the full document, not the working selection.
func ResolveAnchor(fragment string, index IDIndex) AnchorMatch {
	id := strings.TrimPrefix(fragment, "#")
	return AnchorMatch{ID: id, Count: index.CountID(id)}
}
