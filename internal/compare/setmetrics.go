package compare

import "github.com/ThomasJButler/iAI-Assessment/internal/mapping"

// Jaccard returns |A ∩ B| / |A ∪ B|. Two empty sets score 1.0 by policy:
// "no themes assigned" by both raters is agreement, not an undefined ratio.
func Jaccard(a, b mapping.ThemeSet) float64 {
	union := a.UnionSize(b)
	if union == 0 {
		return 1.0
	}
	return float64(a.IntersectionSize(b)) / float64(union)
}

// ExactMatch reports whether the two theme sets are set-equal.
func ExactMatch(a, b mapping.ThemeSet) bool {
	return a.Equal(b)
}
