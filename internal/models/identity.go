package models

// Identity is the normalized student identity. Upstream views hand the
// portal partially-populated records under several alias field names; every
// field here is optional and the accessor methods pick the first populated
// alias.
type Identity struct {
	StudentID   string `json:"student_id,omitempty"`
	UUID        string `json:"uuid,omitempty"`
	UniRegID    string `json:"uni_reg_id,omitempty"`
	RegID       string `json:"reg_id,omitempty"`
	BatchID     string `json:"batch_id,omitempty"`
	Batch       string `json:"batch,omitempty"`
	BatchName   string `json:"batch_name,omitempty"`
	StudentName string `json:"student_name,omitempty"`
	DisplayName string `json:"name,omitempty"`
}

// EffectiveID returns the best available stable identifier for analytics
// calls: stable id first, registration id as a last resort.
func (i Identity) EffectiveID() string {
	for _, candidate := range []string{i.StudentID, i.UUID, i.UniRegID, i.RegID} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// EffectiveRegID returns the registration id under either alias.
func (i Identity) EffectiveRegID() string {
	if i.UniRegID != "" {
		return i.UniRegID
	}
	return i.RegID
}

// EffectiveBatch returns the batch reference used for course listing.
func (i Identity) EffectiveBatch() string {
	if i.BatchID != "" {
		return i.BatchID
	}
	return i.Batch
}

// Name returns the student's display name under either alias.
func (i Identity) Name() string {
	if i.StudentName != "" {
		return i.StudentName
	}
	return i.DisplayName
}

// HasStableID reports whether a stable identifier is present.
func (i Identity) HasStableID() bool {
	return i.StudentID != "" || i.UUID != ""
}

// HasBatch reports whether a batch reference is present.
func (i Identity) HasBatch() bool {
	return i.BatchID != "" || i.Batch != ""
}

// NeedsLookup reports whether the identity must be reconciled before course
// data can be fetched.
func (i Identity) NeedsLookup() bool {
	return !i.HasStableID() || !i.HasBatch()
}

// Merge spreads a looked-up identity over the carried one: every field the
// lookup populated wins, every field it left empty keeps the carried value.
func (i Identity) Merge(lookup Identity) Identity {
	merged := i
	if lookup.StudentID != "" {
		merged.StudentID = lookup.StudentID
	}
	if lookup.UUID != "" {
		merged.UUID = lookup.UUID
	}
	if lookup.UniRegID != "" {
		merged.UniRegID = lookup.UniRegID
	}
	if lookup.RegID != "" {
		merged.RegID = lookup.RegID
	}
	if lookup.BatchID != "" {
		merged.BatchID = lookup.BatchID
	}
	if lookup.Batch != "" {
		merged.Batch = lookup.Batch
	}
	if lookup.BatchName != "" {
		merged.BatchName = lookup.BatchName
	}
	if lookup.StudentName != "" {
		merged.StudentName = lookup.StudentName
	}
	if lookup.DisplayName != "" {
		merged.DisplayName = lookup.DisplayName
	}
	return merged
}
