package mapping

import "fmt"

// ValidationError reports that the two mappings cannot be aligned because
// their lengths differ. It is fatal: no metric is computed on invalid input.
type ValidationError struct {
	Len1 int
	Len2 int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("mapping lengths differ: %d vs %d", e.Len1, e.Len2)
}

// MalformedMappingError reports a structurally invalid record: missing
// response text or themes field, a null theme collection, or a non-string
// theme entry. Index identifies the offending record.
type MalformedMappingError struct {
	Index  int
	Reason string
}

func (e *MalformedMappingError) Error() string {
	return fmt.Sprintf("malformed mapping record at index %d: %s", e.Index, e.Reason)
}
