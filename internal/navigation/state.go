package navigation

import (
	"github.com/campusworks/teacher-portal-api/internal/models"
	"github.com/campusworks/teacher-portal-api/internal/utils"
)

// Phase tags the active view of the drill-down. Exactly one phase is active
// at a time; deeper fields of State are only populated in the phases that
// own them.
type Phase string

const (
	PhaseSectionList    Phase = "section_list"
	PhaseSectionDetail  Phase = "section_detail"
	PhaseStudentSearch  Phase = "student_search"
	PhaseCourseList     Phase = "course_list"
	PhaseCourseDeepDive Phase = "course_deep_dive"
)

// InspectedSubUnit identifies the sub-unit whose attempt history is open in
// the deep dive.
type InspectedSubUnit struct {
	UnitID    string `json:"unit_id"`
	SubUnitID string `json:"sub_unit_id"`
	Title     string `json:"title"`
}

// State is the single navigation state tree. It is owned exclusively by the
// machine's transition handlers; views receive copies via Snapshot.
type State struct {
	Phase Phase `json:"phase"`

	// LoadFailed marks that the fetch of the most recent transition failed
	// and the current view holds an empty result set. Re-selecting the same
	// node re-triggers the fetch.
	LoadFailed bool `json:"load_failed,omitempty"`

	// Section family.
	SectionName string                   `json:"section_name,omitempty"`
	Analytics   *models.SectionAnalytics `json:"analytics,omitempty"`
	Sort        utils.SortConfig         `json:"sort"`

	// Student search (root-level entry point).
	SearchQuery   string            `json:"search_query,omitempty"`
	SearchResults []models.Identity `json:"search_results,omitempty"`

	// Student detail family. Student is the reconciled identity, cached for
	// the lifetime of the student view.
	Student *models.Identity `json:"student,omitempty"`
	Courses []models.Course  `json:"courses,omitempty"`

	// Course deep dive.
	Course         *models.Course    `json:"course,omitempty"`
	Structure      []models.Unit     `json:"structure,omitempty"`
	Completions    map[string]int    `json:"unit_completions,omitempty"`
	CourseProgress int               `json:"course_progress"`
	ExpandedUnit   string            `json:"expanded_unit,omitempty"`
	SubUnit        *InspectedSubUnit `json:"sub_unit,omitempty"`
	ResultType     models.ResultType `json:"result_type"`
	History        []models.AttemptSummary `json:"history,omitempty"`

	// Attempt detail view, open while InspectedAttempt is non-zero.
	InspectedAttempt int                   `json:"inspected_attempt,omitempty"`
	Attempt          *models.AttemptDetail `json:"attempt,omitempty"`

	// returnTo records which root view the student detail was entered from.
	returnTo Phase
}

// clone deep-copies the state so callers can never mutate the machine's tree.
func (s State) clone() State {
	copied := s

	if s.Analytics != nil {
		analytics := *s.Analytics
		analytics.CoursePerformance = append([]models.CoursePerformance(nil), s.Analytics.CoursePerformance...)
		analytics.StudentPerformance = append([]models.StudentRow(nil), s.Analytics.StudentPerformance...)
		copied.Analytics = &analytics
	}
	if s.Student != nil {
		student := *s.Student
		copied.Student = &student
	}
	if s.Course != nil {
		course := *s.Course
		copied.Course = &course
	}
	if s.SubUnit != nil {
		subUnit := *s.SubUnit
		copied.SubUnit = &subUnit
	}
	if s.Attempt != nil {
		attempt := *s.Attempt
		copied.Attempt = &attempt
	}
	if s.Completions != nil {
		completions := make(map[string]int, len(s.Completions))
		for unitID, percentage := range s.Completions {
			completions[unitID] = percentage
		}
		copied.Completions = completions
	}

	copied.SearchResults = append([]models.Identity(nil), s.SearchResults...)
	copied.Courses = append([]models.Course(nil), s.Courses...)
	copied.Structure = append([]models.Unit(nil), s.Structure...)
	copied.History = append([]models.AttemptSummary(nil), s.History...)

	return copied
}
