package utils

import (
	"sort"

	"github.com/campusworks/teacher-portal-api/internal/models"
)

// SortKey selects the student-row column to order by.
type SortKey string

const (
	SortKeyStudentName     SortKey = "student_name"
	SortKeyUniRegID        SortKey = "uni_reg_id"
	SortKeyOverallProgress SortKey = "overall_progress"
)

// SortDirection orders ascending or descending.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// SortConfig is the active sort of the student performance table.
type SortConfig struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

// DefaultSortConfig is the ordering applied when a section is first opened.
func DefaultSortConfig() SortConfig {
	return SortConfig{Key: SortKeyOverallProgress, Direction: SortAscending}
}

// Request applies a column click: the same key flips direction, a new key
// resets to ascending.
func (c *SortConfig) Request(key SortKey) {
	if c.Key == key && c.Direction == SortAscending {
		c.Direction = SortDescending
		return
	}
	c.Key = key
	c.Direction = SortAscending
}

// SortStudents returns a new ordered slice; the input is never mutated.
// Numeric keys compare numerically, string keys lexically, and equal keys
// preserve their relative input order.
func SortStudents(rows []models.StudentRow, key SortKey, direction SortDirection) []models.StudentRow {
	sorted := append([]models.StudentRow(nil), rows...)

	less := lessFunc(key)
	if less == nil {
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if direction == SortDescending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})

	return sorted
}

func lessFunc(key SortKey) func(a, b models.StudentRow) bool {
	switch key {
	case SortKeyStudentName:
		return func(a, b models.StudentRow) bool { return a.StudentName < b.StudentName }
	case SortKeyUniRegID:
		return func(a, b models.StudentRow) bool { return a.UniRegID < b.UniRegID }
	case SortKeyOverallProgress:
		return func(a, b models.StudentRow) bool { return a.OverallProgress < b.OverallProgress }
	default:
		return nil
	}
}
