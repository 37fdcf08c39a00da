package student

import "sort"

// DefaultSubjects is the subject list prompted for when none is configured.
// The labels are kept exactly as the tracker has always stored them.
var DefaultSubjects = []string{
	"intro to programing",
	"object oriented programing",
	"computer architechture",
}

// DefaultRenames maps raw subject labels to display labels.
// None of its keys occur in DefaultSubjects, so with the defaults it never fires;
// SubjectCatalog.UnusedRenames reports that.
func DefaultRenames() map[string]string {
	return map[string]string{
		"Math":    "Computer Architecture",
		"Science": "Intro to Programming",
		"English": "Object Oriented Programming",
	}
}

// SubjectCatalog holds the subjects to grade and the rename table applied at entry.
type SubjectCatalog struct {
	Subjects []string
	Renames  map[string]string
}

// NewSubjectCatalog builds a catalog. Nil arguments fall back to the defaults.
func NewSubjectCatalog(subjects []string, renames map[string]string) SubjectCatalog {
	if subjects == nil {
		subjects = append([]string(nil), DefaultSubjects...)
	}
	if renames == nil {
		renames = DefaultRenames()
	}
	return SubjectCatalog{Subjects: subjects, Renames: renames}
}

// DisplayName maps a raw subject label through the rename table.
// Labels without an entry pass through unchanged.
func (c SubjectCatalog) DisplayName(subject string) string {
	if renamed, ok := c.Renames[subject]; ok {
		return renamed
	}
	return subject
}

// DisplaySubjects returns the configured subjects after renaming, in order.
func (c SubjectCatalog) DisplaySubjects() []string {
	out := make([]string, len(c.Subjects))
	for i, s := range c.Subjects {
		out[i] = c.DisplayName(s)
	}
	return out
}

// UnusedRenames returns the rename keys that match no configured subject, sorted.
func (c SubjectCatalog) UnusedRenames() []string {
	configured := make(map[string]struct{}, len(c.Subjects))
	for _, s := range c.Subjects {
		configured[s] = struct{}{}
	}

	var unused []string
	for raw := range c.Renames {
		if _, ok := configured[raw]; !ok {
			unused = append(unused, raw)
		}
	}
	sort.Strings(unused)
	return unused
}
