// Package mapping holds the canonical in-memory form of a theme mapping: an
// ordered sequence of consultation responses, each carrying a set of
// normalised theme labels. Two mappings over the same corpus are aligned into
// a Pair before any metric is computed.
package mapping

import (
	"encoding/json"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// NormalizeLabel canonicalises a theme label: surrounding whitespace is
// trimmed, internal runs of whitespace collapse to a single space, the text is
// NFKC-normalised, and case is folded. Label identity after normalisation is
// the unit of comparison; there is no fuzzy matching.
func NormalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = norm.NFKC.String(s)
	return foldCaser.String(s)
}

// ThemeSet is an immutable set of normalised theme labels. The zero value is
// the empty set. Labels are held sorted so iteration order is deterministic.
type ThemeSet struct {
	labels []string
}

// NewThemeSet builds a ThemeSet from raw labels. Each label is normalised;
// empty labels are dropped and duplicates collapse.
func NewThemeSet(labels ...string) ThemeSet {
	if len(labels) == 0 {
		return ThemeSet{}
	}
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, raw := range labels {
		l := NormalizeLabel(raw)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return ThemeSet{labels: out}
}

// Len returns the number of labels in the set.
func (s ThemeSet) Len() int { return len(s.labels) }

// Labels returns a copy of the labels in sorted order.
func (s ThemeSet) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Has reports whether the set contains the (already normalised) label.
func (s ThemeSet) Has(label string) bool {
	i := sort.SearchStrings(s.labels, label)
	return i < len(s.labels) && s.labels[i] == label
}

// Equal reports set equality.
func (s ThemeSet) Equal(o ThemeSet) bool {
	if len(s.labels) != len(o.labels) {
		return false
	}
	for i := range s.labels {
		if s.labels[i] != o.labels[i] {
			return false
		}
	}
	return true
}

// IntersectionSize returns |s ∩ o|. Both label slices are sorted, so a single
// merge pass suffices.
func (s ThemeSet) IntersectionSize(o ThemeSet) int {
	i, j, n := 0, 0, 0
	for i < len(s.labels) && j < len(o.labels) {
		switch {
		case s.labels[i] == o.labels[j]:
			n++
			i++
			j++
		case s.labels[i] < o.labels[j]:
			i++
		default:
			j++
		}
	}
	return n
}

// UnionSize returns |s ∪ o|.
func (s ThemeSet) UnionSize(o ThemeSet) int {
	return len(s.labels) + len(o.labels) - s.IntersectionSize(o)
}

// DifferenceSize returns |s \ o|.
func (s ThemeSet) DifferenceSize(o ThemeSet) int {
	return len(s.labels) - s.IntersectionSize(o)
}

// MarshalJSON encodes the set as a sorted JSON array of labels.
func (s ThemeSet) MarshalJSON() ([]byte, error) {
	if s.labels == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.labels)
}
