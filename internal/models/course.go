package models

// Course is one enrolled course of a student batch.
type Course struct {
	CourseID       string  `json:"course_id"`
	CourseName     string  `json:"course_name"`
	CourseCode     string  `json:"course_code"`
	CompletionRate float64 `json:"completion_rate"`
}

// SubUnit is the smallest gradable unit of course content.
type SubUnit struct {
	SubUnitID string `json:"sub_unit_id"`
	Title     string `json:"title"`
}

// Unit is one unit of a course structure. The raw feed may list the same
// unit name more than once with differing sub-unit completeness; the
// aggregation engine collapses those duplicates.
type Unit struct {
	UnitID   string    `json:"unit_id"`
	UnitName string    `json:"unit_name"`
	SubUnits []SubUnit `json:"sub_units"`
}
