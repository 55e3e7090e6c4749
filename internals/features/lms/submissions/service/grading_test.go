package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeQuizScore(t *testing.T) {
	// 2 soal x 5 poin, 1 benar
	assert.Equal(t, 50.0, ComputeQuizScore(5, 10))

	assert.Equal(t, 100.0, ComputeQuizScore(10, 10))
	assert.Equal(t, 0.0, ComputeQuizScore(0, 10))

	// pembagian tidak bulat → 2 desimal
	assert.Equal(t, 66.67, ComputeQuizScore(2, 3))

	// total nol atau negatif tidak membagi nol
	assert.Equal(t, 0.0, ComputeQuizScore(5, 0))
	assert.Equal(t, 0.0, ComputeQuizScore(5, -1))
}

func TestApplyLatePenalty(t *testing.T) {
	assert.Equal(t, 72.0, ApplyLatePenalty(80, 10))
	assert.Equal(t, 0.0, ApplyLatePenalty(50, 100))
	assert.Equal(t, 80.0, ApplyLatePenalty(80, 0))

	// tidak pernah negatif
	assert.Equal(t, 0.0, ApplyLatePenalty(-10, 10))
}

func TestFinalGradeFor(t *testing.T) {
	// penalty aktif hanya saat telat + diizinkan + penalty > 0
	assert.Equal(t, 72.0, FinalGradeFor(80, true, true, 10))

	assert.Equal(t, 80.0, FinalGradeFor(80, false, true, 10))
	assert.Equal(t, 80.0, FinalGradeFor(80, true, false, 10))
	assert.Equal(t, 80.0, FinalGradeFor(80, true, true, 0))

	// pembulatan konsisten 2 desimal
	assert.Equal(t, 83.33, FinalGradeFor(83.333, false, false, 0))
}
