package linkcheck

import "github.com/lukemcguire/linklint/urlutil"

// RedirectChange describes how the last URL of a redirect chain differs from
// the first.
type RedirectChange struct {
	DomainChanged   bool // Host or path differ
	ProtocolChanged bool // Scheme differs
	WWWChanged      bool // Exactly one side has a "www." host prefix
}

// AnalyzeRedirect compares the first and last URL of chain after removing
// one trailing slash from each. Chains shorter than two URLs report no
// change.
func AnalyzeRedirect(chain []string) RedirectChange {
	if len(chain) < 2 {
		return RedirectChange{}
	}
	fromScheme, fromWWW, fromRest := urlutil.SplitSchemeWWW(urlutil.TrimTrailingSlash(chain[0]))
	toScheme, toWWW, toRest := urlutil.SplitSchemeWWW(urlutil.TrimTrailingSlash(chain[len(chain)-1]))

	return RedirectChange{
		DomainChanged:   fromRest != toRest,
		ProtocolChanged: fromScheme != toScheme,
		WWWChanged:      fromWWW != toWWW,
	}
}

// reportable applies a presentation mode to one kind of change.
func (c RedirectChange) reportable(mode RedirectWarningMode, changed bool) bool {
	switch mode {
	case RedirectAlwaysSeparate:
		return changed
	case RedirectOnlyIfNoDomainChange:
		return changed && !c.DomainChanged
	default:
		return false
	}
}
