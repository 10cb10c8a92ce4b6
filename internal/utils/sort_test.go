package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusworks/teacher-portal-api/internal/models"
)

func TestSortStudentsStableOnEqualKeys(t *testing.T) {
	rows := []models.StudentRow{
		{StudentName: "B", OverallProgress: 50},
		{StudentName: "A", OverallProgress: 50},
		{StudentName: "C", OverallProgress: 10},
	}

	sorted := SortStudents(rows, SortKeyOverallProgress, SortAscending)

	require.Equal(t, "C", sorted[0].StudentName)
	require.Equal(t, "B", sorted[1].StudentName)
	require.Equal(t, "A", sorted[2].StudentName)
}

func TestSortStudentsDoesNotMutateInput(t *testing.T) {
	rows := []models.StudentRow{
		{StudentName: "B", OverallProgress: 90},
		{StudentName: "A", OverallProgress: 10},
	}

	_ = SortStudents(rows, SortKeyStudentName, SortAscending)

	require.Equal(t, "B", rows[0].StudentName)
	require.Equal(t, "A", rows[1].StudentName)
}

func TestSortStudentsDescendingPreservesTieOrder(t *testing.T) {
	rows := []models.StudentRow{
		{StudentName: "B", OverallProgress: 50},
		{StudentName: "A", OverallProgress: 50},
		{StudentName: "C", OverallProgress: 70},
	}

	sorted := SortStudents(rows, SortKeyOverallProgress, SortDescending)

	require.Equal(t, "C", sorted[0].StudentName)
	require.Equal(t, "B", sorted[1].StudentName)
	require.Equal(t, "A", sorted[2].StudentName)
}

func TestSortStudentsByName(t *testing.T) {
	rows := []models.StudentRow{
		{StudentName: "Charlie", UniRegID: "R3"},
		{StudentName: "Alice", UniRegID: "R1"},
		{StudentName: "Bob", UniRegID: "R2"},
	}

	sorted := SortStudents(rows, SortKeyStudentName, SortAscending)

	require.Equal(t, []string{"Alice", "Bob", "Charlie"}, []string{
		sorted[0].StudentName, sorted[1].StudentName, sorted[2].StudentName,
	})
}

func TestSortConfigRequestTogglesAndResets(t *testing.T) {
	cfg := DefaultSortConfig()
	require.Equal(t, SortKeyOverallProgress, cfg.Key)
	require.Equal(t, SortAscending, cfg.Direction)

	cfg.Request(SortKeyOverallProgress)
	require.Equal(t, SortDescending, cfg.Direction)

	cfg.Request(SortKeyOverallProgress)
	require.Equal(t, SortAscending, cfg.Direction)

	cfg.Request(SortKeyOverallProgress)
	require.Equal(t, SortDescending, cfg.Direction)

	cfg.Request(SortKeyStudentName)
	require.Equal(t, SortKeyStudentName, cfg.Key)
	require.Equal(t, SortAscending, cfg.Direction)
}

func TestSortStudentsUnknownKeyKeepsOrder(t *testing.T) {
	rows := []models.StudentRow{
		{StudentName: "B"},
		{StudentName: "A"},
	}

	sorted := SortStudents(rows, SortKey("unknown"), SortAscending)

	require.Equal(t, "B", sorted[0].StudentName)
	require.Equal(t, "A", sorted[1].StudentName)
}
