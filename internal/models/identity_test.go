package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityMergeLookupWins(t *testing.T) {
	carried := Identity{
		UniRegID:    "REG-1",
		StudentName: "Row Name",
	}
	lookup := Identity{
		StudentID:   "stu-42",
		BatchID:     "batch-7",
		StudentName: "Directory Name",
	}

	merged := carried.Merge(lookup)

	require.Equal(t, "stu-42", merged.StudentID)
	require.Equal(t, "batch-7", merged.BatchID)
	require.Equal(t, "Directory Name", merged.StudentName)
	require.Equal(t, "REG-1", merged.UniRegID)
}

func TestIdentityMergeKeepsCarriedWhenLookupEmpty(t *testing.T) {
	carried := Identity{
		UniRegID:    "REG-1",
		StudentName: "Row Name",
		Batch:       "batch-legacy",
	}

	merged := carried.Merge(Identity{StudentID: "stu-42"})

	require.Equal(t, "stu-42", merged.StudentID)
	require.Equal(t, "REG-1", merged.UniRegID)
	require.Equal(t, "Row Name", merged.StudentName)
	require.Equal(t, "batch-legacy", merged.Batch)
}

func TestIdentityEffectiveIDPreference(t *testing.T) {
	full := Identity{StudentID: "stu", UUID: "uuid", UniRegID: "reg", RegID: "legacy"}
	require.Equal(t, "stu", full.EffectiveID())

	require.Equal(t, "uuid", Identity{UUID: "uuid", UniRegID: "reg"}.EffectiveID())
	require.Equal(t, "reg", Identity{UniRegID: "reg", RegID: "legacy"}.EffectiveID())
	require.Equal(t, "legacy", Identity{RegID: "legacy"}.EffectiveID())
	require.Empty(t, Identity{}.EffectiveID())
}

func TestIdentityNeedsLookup(t *testing.T) {
	require.True(t, Identity{UniRegID: "reg"}.NeedsLookup())
	require.True(t, Identity{StudentID: "stu"}.NeedsLookup())
	require.True(t, Identity{BatchID: "batch"}.NeedsLookup())
	require.False(t, Identity{StudentID: "stu", BatchID: "batch"}.NeedsLookup())
	require.False(t, Identity{UUID: "uuid", Batch: "batch"}.NeedsLookup())
}

func TestTeacherUnmarshalAcceptsBothSpellings(t *testing.T) {
	var modern Teacher
	require.NoError(t, json.Unmarshal([]byte(`{"teacher_name":"Dr. Rao","assigned_sections":["CSE-A","CSE-B"]}`), &modern))
	require.Equal(t, "Dr. Rao", modern.Name)
	require.Equal(t, []string{"CSE-A", "CSE-B"}, modern.AssignedSections)

	var legacy Teacher
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Dr. Iyer","assigned_section":["ECE-A"]}`), &legacy))
	require.Equal(t, "Dr. Iyer", legacy.Name)
	require.Equal(t, []string{"ECE-A"}, legacy.AssignedSections)
}
