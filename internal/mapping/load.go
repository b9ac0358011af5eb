package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ThomasJButler/iAI-Assessment/internal/monitoring"
)

// Load reads one raw mapping from r. Two wire shapes are accepted, matching
// the artifacts produced by the extraction and variation collaborators:
//
//	[{"response_text": "...", "themes": ["Theme A", ...]}, ...]
//	[["...", ["Theme A", ...]], ...]
//
// Records are normalised as they are read. A structurally invalid record
// aborts the load with a MalformedMappingError carrying its index; no partial
// mapping is returned.
func Load(r io.Reader) (*Mapping, error) {
	var raw []json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode mapping JSON: %w", err)
	}

	m := &Mapping{Records: make([]Record, 0, len(raw))}
	for i, el := range raw {
		rec, err := decodeRecord(i, el)
		if err != nil {
			return nil, err
		}
		m.Records = append(m.Records, rec)
	}
	return m, nil
}

// LoadBytes reads a mapping from an in-memory JSON document.
func LoadBytes(data []byte) (*Mapping, error) {
	return Load(bytes.NewReader(data))
}

// LoadFile reads a mapping from a JSON file on disk.
func LoadFile(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	monitoring.Logf("loaded theme mapping with %d responses from %s", m.Len(), path)
	return m, nil
}

func decodeRecord(idx int, el json.RawMessage) (Record, error) {
	trimmed := bytes.TrimSpace(el)
	if len(trimmed) == 0 {
		return Record{}, &MalformedMappingError{Index: idx, Reason: "empty record"}
	}

	switch trimmed[0] {
	case '{':
		return decodeObjectRecord(idx, trimmed)
	case '[':
		return decodePairRecord(idx, trimmed)
	default:
		return Record{}, &MalformedMappingError{Index: idx, Reason: "record is neither an object nor a [text, themes] pair"}
	}
}

func decodeObjectRecord(idx int, el json.RawMessage) (Record, error) {
	var obj struct {
		Text   *string          `json:"response_text"`
		Themes *json.RawMessage `json:"themes"`
	}
	if err := json.Unmarshal(el, &obj); err != nil {
		return Record{}, &MalformedMappingError{Index: idx, Reason: err.Error()}
	}
	if obj.Text == nil {
		return Record{}, &MalformedMappingError{Index: idx, Reason: "missing response_text field"}
	}
	if obj.Themes == nil {
		return Record{}, &MalformedMappingError{Index: idx, Reason: "missing themes field"}
	}
	themes, err := decodeThemes(idx, *obj.Themes)
	if err != nil {
		return Record{}, err
	}
	return Record{Text: *obj.Text, Themes: themes}, nil
}

func decodePairRecord(idx int, el json.RawMessage) (Record, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(el, &pair); err != nil {
		return Record{}, &MalformedMappingError{Index: idx, Reason: err.Error()}
	}
	if len(pair) != 2 {
		return Record{}, &MalformedMappingError{Index: idx, Reason: fmt.Sprintf("pair record has %d elements, want 2", len(pair))}
	}
	var text string
	if err := json.Unmarshal(pair[0], &text); err != nil {
		return Record{}, &MalformedMappingError{Index: idx, Reason: "response text is not a string"}
	}
	themes, err := decodeThemes(idx, pair[1])
	if err != nil {
		return Record{}, err
	}
	return Record{Text: text, Themes: themes}, nil
}

// decodeThemes enforces the data contract on the label collection: it must be
// a JSON array of strings. A null collection is rejected outright; absence of
// themes is the empty array, not null.
func decodeThemes(idx int, raw json.RawMessage) (ThemeSet, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return ThemeSet{}, &MalformedMappingError{Index: idx, Reason: "themes is null; absence of themes must be an empty array"}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return ThemeSet{}, &MalformedMappingError{Index: idx, Reason: "themes is not an array"}
	}
	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		var s string
		if err := json.Unmarshal(e, &s); err != nil {
			return ThemeSet{}, &MalformedMappingError{Index: idx, Reason: fmt.Sprintf("theme entry %s is not a string", bytes.TrimSpace(e))}
		}
		labels = append(labels, s)
	}
	return NewThemeSet(labels...), nil
}

// SaveFile writes a mapping to disk in the object wire shape, indented for
// readability.
func SaveFile(path string, m *Mapping) error {
	data, err := json.MarshalIndent(m.Records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping file: %w", err)
	}
	monitoring.Logf("wrote theme mapping with %d responses to %s", m.Len(), path)
	return nil
}

// LoadAlignedFiles loads two mapping files and aligns them, applying the
// all-or-nothing propagation policy: any structural error in either file
// aborts before alignment.
func LoadAlignedFiles(path1, path2 string) (*Pair, error) {
	m1, err := LoadFile(path1)
	if err != nil {
		return nil, err
	}
	m2, err := LoadFile(path2)
	if err != nil {
		return nil, err
	}
	return Align(m1, m2)
}
