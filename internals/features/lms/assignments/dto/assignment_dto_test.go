package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	model "kelasku_backend/internals/features/lms/assignments/model"
)

func quizReq(options ...QuizOptionRequest) CreateAssignmentRequest {
	return CreateAssignmentRequest{
		AssignmentType: model.AssignmentTypeQuiz,
		QuizQuestions: []QuizQuestionRequest{
			{QuestionText: "soal", Options: options},
		},
	}
}

func TestValidateQuizShape(t *testing.T) {
	// tepat satu opsi benar → valid
	ok := quizReq(
		QuizOptionRequest{OptionText: "a", IsCorrect: true},
		QuizOptionRequest{OptionText: "b"},
	)
	assert.NoError(t, ok.ValidateQuizShape())

	// tanpa opsi benar
	none := quizReq(
		QuizOptionRequest{OptionText: "a"},
		QuizOptionRequest{OptionText: "b"},
	)
	assert.ErrorIs(t, none.ValidateQuizShape(), ErrQuizOptionShape)

	// dua opsi benar
	two := quizReq(
		QuizOptionRequest{OptionText: "a", IsCorrect: true},
		QuizOptionRequest{OptionText: "b", IsCorrect: true},
	)
	assert.ErrorIs(t, two.ValidateQuizShape(), ErrQuizOptionShape)

	// quiz tanpa soal
	empty := CreateAssignmentRequest{AssignmentType: model.AssignmentTypeQuiz}
	assert.Error(t, empty.ValidateQuizShape())

	// file tidak menerima soal
	file := CreateAssignmentRequest{
		AssignmentType: model.AssignmentTypeFile,
		QuizQuestions:  []QuizQuestionRequest{{QuestionText: "soal"}},
	}
	assert.Error(t, file.ValidateQuizShape())
	assert.NoError(t, CreateAssignmentRequest{AssignmentType: model.AssignmentTypeFile}.ValidateQuizShape())
}

func TestFromModelHidesAnswerKeyFromStudents(t *testing.T) {
	questions := []model.AssignmentQuizQuestionModel{{
		AssignmentQuizQuestionText:   "soal",
		AssignmentQuizQuestionPoints: 5,
	}}
	options := []model.AssignmentQuizOptionModel{
		{AssignmentQuizOptionQuestionID: questions[0].AssignmentQuizQuestionID, AssignmentQuizOptionIsCorrect: true},
		{AssignmentQuizOptionQuestionID: questions[0].AssignmentQuizQuestionID},
	}

	student := QuizFromModels(questions, options, false)
	for _, q := range student {
		for _, o := range q.Options {
			assert.Nil(t, o.AssignmentQuizOptionIsCorrect)
		}
	}

	instructor := QuizFromModels(questions, options, true)
	assert.True(t, *instructor[0].Options[0].AssignmentQuizOptionIsCorrect)
}
