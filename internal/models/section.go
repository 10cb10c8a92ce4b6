package models

// SectionMetadata summarises a section in the analytics header.
type SectionMetadata struct {
	SectionName   string `json:"section_name"`
	TotalStudents int    `json:"total_students"`
	TotalCourses  int    `json:"total_courses"`
}

// CoursePerformance is the per-course average within a section.
type CoursePerformance struct {
	CourseID     string  `json:"course_id"`
	CourseName   string  `json:"course_name"`
	AverageScore float64 `json:"average_score"`
}

// CourseScore is one student's score in one course.
type CourseScore struct {
	CourseID string  `json:"course_id"`
	Score    float64 `json:"score"`
	Status   string  `json:"status"`
}

// StudentRow is one row of the section performance table.
type StudentRow struct {
	StudentID       string        `json:"student_id"`
	StudentName     string        `json:"student_name"`
	UniRegID        string        `json:"uni_reg_id"`
	OverallProgress float64       `json:"overall_progress"`
	Courses         []CourseScore `json:"courses"`
}

// Identity converts a table row into the partial identity carried into the
// student detail view.
func (r StudentRow) Identity() Identity {
	return Identity{
		StudentID:   r.StudentID,
		UniRegID:    r.UniRegID,
		StudentName: r.StudentName,
	}
}

// SectionAnalytics is the full analytics payload for one section. It is
// fetched fresh on every section selection and never cached across sections.
type SectionAnalytics struct {
	Metadata           SectionMetadata     `json:"section_metadata"`
	CoursePerformance  []CoursePerformance `json:"course_performance"`
	StudentPerformance []StudentRow        `json:"student_performance"`
}
