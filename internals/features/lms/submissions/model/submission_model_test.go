package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// Index parsial (assignment_id, student_id) pada status non-draft adalah
// satu-satunya guard race double-submit; pre-check di service hanya jalur
// cepatnya. Pastikan tag model benar-benar menghasilkan unique index.
func TestFinalSlotIndexIsPartialUnique(t *testing.T) {
	s, err := schema.Parse(&SubmissionModel{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	idx, ok := s.ParseIndexes()["uq_submission_final_slot"]
	require.True(t, ok, "index uq_submission_final_slot tidak terdaftar")

	require.Equal(t, "UNIQUE", idx.Class)
	require.Contains(t, idx.Where, "draft")

	require.Len(t, idx.Fields, 2)
	require.Equal(t, "submission_assignment_id", idx.Fields[0].DBName)
	require.Equal(t, "submission_student_id", idx.Fields[1].DBName)
}

func TestIsFinal(t *testing.T) {
	for status, final := range map[SubmissionStatus]bool{
		SubmissionStatusDraft:     false,
		SubmissionStatusSubmitted: true,
		SubmissionStatusGraded:    true,
	} {
		m := SubmissionModel{SubmissionStatus: status}
		require.Equal(t, final, m.IsFinal(), "status %s", status)
	}
}
