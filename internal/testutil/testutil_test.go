package testutil

import (
	"testing"
)

func TestMustMapping(t *testing.T) {
	m := MustMapping(t,
		[]string{"a", "b"},
		[][]string{{"Theme A"}, {"Theme B", "Theme C"}},
	)
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if m.Records[1].Themes.Len() != 2 {
		t.Errorf("second record has %d themes, want 2", m.Records[1].Themes.Len())
	}
}

func TestMustPair(t *testing.T) {
	pair := MustPair(t,
		[][]string{{"Theme A"}, {}},
		[][]string{{"Theme B"}, {"Theme A"}},
	)
	if pair.Len() != 2 {
		t.Fatalf("Len = %d, want 2", pair.Len())
	}
	want := []string{"Theme A", "Theme B"}
	if len(pair.Vocabulary) != len(want) {
		t.Fatalf("Vocabulary = %v, want %v", pair.Vocabulary, want)
	}
	for i, label := range want {
		if pair.Vocabulary[i] != label {
			t.Errorf("Vocabulary[%d] = %q, want %q", i, pair.Vocabulary[i], label)
		}
	}
}
