package models

import "encoding/json"

// Teacher is the authenticated portal user. It exists only for the lifetime
// of a session and is destroyed on logout.
type Teacher struct {
	Name             string   `json:"name"`
	AssignedSections []string `json:"assigned_sections"`
}

// teacherWire mirrors the login payload, which names fields inconsistently
// across deployments (teacher_name vs name, assigned_section vs
// assigned_sections).
type teacherWire struct {
	Name             string   `json:"name"`
	TeacherName      string   `json:"teacher_name"`
	AssignedSection  []string `json:"assigned_section"`
	AssignedSections []string `json:"assigned_sections"`
}

// UnmarshalJSON decodes a teacher record accepting both field spellings.
func (t *Teacher) UnmarshalJSON(data []byte) error {
	var wire teacherWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	name := wire.TeacherName
	if name == "" {
		name = wire.Name
	}

	sections := wire.AssignedSections
	if len(sections) == 0 {
		sections = wire.AssignedSection
	}

	t.Name = name
	t.AssignedSections = sections
	return nil
}
