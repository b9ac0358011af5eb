package compare

import "github.com/ThomasJButler/iAI-Assessment/internal/mapping"

// Delta counts the label changes from set A to set B at one response:
//
//	additions    = |B \ A|
//	removals     = |A \ B|
//	replacements = max(0, min(|A|, |B|) - |A ∩ B|)
//
// The replacement count is a size-matched substitution approximation, kept
// deliberately distinct from additions/removals so a pure swap is not double
// counted. It is a heuristic, not a reconciled edit distance; the clamp is
// required because the raw formula can go negative when |A| != |B|.
func Delta(a, b mapping.ThemeSet) (additions, removals, replacements int) {
	inter := a.IntersectionSize(b)
	additions = b.Len() - inter
	removals = a.Len() - inter

	minLen := a.Len()
	if b.Len() < minLen {
		minLen = b.Len()
	}
	replacements = minLen - inter
	if replacements < 0 {
		replacements = 0
	}
	return additions, removals, replacements
}
