package savefile

import "fmt"

// FormatError reports a save stream that does not hold exactly two mapping documents.
type FormatError struct {
	Path   string
	Count  int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid save format in %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid save format in %q: expected %d documents, found %d", e.Path, documentCount, e.Count)
}

// SectionNotFoundError reports that no document carries the requested section's discriminator key.
type SectionNotFoundError struct {
	Path    string
	Section Section
	Key     string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found in %q: no document has key %q", e.Section, e.Path, e.Key)
}
