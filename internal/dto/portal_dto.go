package dto

import "github.com/campusworks/teacher-portal-api/internal/models"

// SelectSectionRequest names the section whose analytics view to enter.
type SelectSectionRequest struct {
	SectionName string `json:"section_name" validate:"required"`
}

// SearchRequest carries the free-form student search query.
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
}

// SelectStudentRequest carries the partial identity of the clicked student.
// Every field is optional; the navigation layer reconciles the gaps.
type SelectStudentRequest struct {
	StudentID   string `json:"student_id"`
	UUID        string `json:"uuid"`
	UniRegID    string `json:"uni_reg_id"`
	RegID       string `json:"reg_id"`
	BatchID     string `json:"batch_id"`
	Batch       string `json:"batch"`
	BatchName   string `json:"batch_name"`
	StudentName string `json:"student_name"`
	Name        string `json:"name"`
}

// ToIdentity converts the request payload to the domain identity record.
func (r SelectStudentRequest) ToIdentity() models.Identity {
	return models.Identity{
		StudentID:   r.StudentID,
		UUID:        r.UUID,
		UniRegID:    r.UniRegID,
		RegID:       r.RegID,
		BatchID:     r.BatchID,
		Batch:       r.Batch,
		BatchName:   r.BatchName,
		StudentName: r.StudentName,
		DisplayName: r.Name,
	}
}

// SelectCourseRequest names the course to deep dive into.
type SelectCourseRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

// ExpandUnitRequest names the unit accordion to toggle.
type ExpandUnitRequest struct {
	UnitID string `json:"unit_id" validate:"required"`
}

// SelectSubUnitRequest names the sub-unit whose attempt history to open.
type SelectSubUnitRequest struct {
	UnitID    string `json:"unit_id" validate:"required"`
	SubUnitID string `json:"sub_unit_id" validate:"required"`
	Title     string `json:"title"`
}

// ResultTypeRequest switches the mcq/coding result axis.
type ResultTypeRequest struct {
	ResultType string `json:"result_type" validate:"required"`
}

// SelectAttemptRequest opens the detail of one attempt row.
type SelectAttemptRequest struct {
	Attempt int `json:"attempt" validate:"required,min=1"`
}

// SortRequest applies a column click to the section student table.
type SortRequest struct {
	Key string `json:"key" validate:"required"`
}
