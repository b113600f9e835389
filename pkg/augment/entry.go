package augment

import (
	"fmt"
)

// Entry is one pending augmentation record: a set of field updates captured
// for a single case during a single run. Entries later in the update file
// supersede earlier ones field by field.
type Entry struct {
	// CaseID identifies the augmented case, either its explicit id or its
	// derived key digest.
	CaseID string `yaml:"case id" json:"case id"`

	// RunID groups entries appended by the same capture run.
	RunID string `yaml:"run id,omitempty" json:"run id,omitempty"`

	// Fields are the updated field values, keyed by case field name.
	Fields map[string]any `yaml:"fields" json:"fields"`
}

// Validate checks that the entry can be applied.
func (e *Entry) Validate() error {
	if e.CaseID == "" {
		return fmt.Errorf("augmentation entry has no case id")
	}
	if len(e.Fields) == 0 {
		return fmt.Errorf("augmentation entry for case %s has no fields", e.CaseID)
	}
	return nil
}
