package service

import (
	"testing"

	"codelearn_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answersWithCorrect(total, correct int) []PracticeAnswerInput {
	answers := make([]PracticeAnswerInput, total)
	for i := range answers {
		answers[i] = PracticeAnswerInput{
			QuestionIndex: i,
			CorrectOption: 1,
		}
		if i < correct {
			answers[i].SelectedOption = 1
		} else {
			answers[i].SelectedOption = 2
		}
	}
	return answers
}

func TestRecordAttemptScoring(t *testing.T) {
	cases := []struct {
		name           string
		total          int
		correct        int
		wantPercentage float64
		wantPassed     bool
	}{
		{"all correct", 5, 5, 100, true},
		{"none correct", 5, 0, 0, false},
		{"exactly at pass line", 5, 4, 80, true},
		{"just below pass line", 4, 3, 75, false},
		{"repeating decimal rounds to 2dp", 3, 2, 66.67, false},
		{"one of six", 6, 1, 16.67, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewPracticeService(&fakeAttemptStore{}, newFakeBestStore())

			attempt, err := svc.RecordAttempt(1, 10, RecordAttemptRequest{
				Answers:          answersWithCorrect(tc.total, tc.correct),
				TimeTakenSeconds: 42,
			})
			require.NoError(t, err)

			assert.Equal(t, tc.correct, attempt.Score)
			assert.Equal(t, tc.total, attempt.Total)
			assert.Equal(t, tc.wantPercentage, attempt.Percentage)
			assert.Equal(t, tc.wantPassed, attempt.Passed)
			assert.Equal(t, 1, attempt.AttemptNumber)
			assert.Equal(t, 42, attempt.TimeTakenSeconds)
			assert.NotEmpty(t, attempt.ID)
		})
	}
}

func TestRecordAttemptRejectsEmptyAnswers(t *testing.T) {
	svc := NewPracticeService(&fakeAttemptStore{}, newFakeBestStore())

	_, err := svc.RecordAttempt(1, 10, RecordAttemptRequest{})
	assert.ErrorIs(t, err, util.ErrEmptyAnswers)
}

func TestAttemptNumbersAreSequential(t *testing.T) {
	attempts := &fakeAttemptStore{}
	svc := NewPracticeService(attempts, newFakeBestStore())

	for i := 1; i <= 4; i++ {
		attempt, err := svc.RecordAttempt(1, 10, RecordAttemptRequest{
			Answers: answersWithCorrect(5, i),
		})
		require.NoError(t, err)
		assert.Equal(t, i, attempt.AttemptNumber)
	}

	// 其他主题/学员从 1 重新计数
	attempt, err := svc.RecordAttempt(1, 11, RecordAttemptRequest{Answers: answersWithCorrect(5, 1)})
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.AttemptNumber)

	attempt, err = svc.RecordAttempt(2, 10, RecordAttemptRequest{Answers: answersWithCorrect(5, 1)})
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.AttemptNumber)
}

func TestRecordAttemptRetriesOnNumberConflict(t *testing.T) {
	attempts := &fakeAttemptStore{forcedConflicts: 2}
	svc := NewPracticeService(attempts, newFakeBestStore())

	attempt, err := svc.RecordAttempt(1, 10, RecordAttemptRequest{
		Answers: answersWithCorrect(5, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.AttemptNumber)
}

func TestRecordAttemptGivesUpAfterRepeatedConflicts(t *testing.T) {
	attempts := &fakeAttemptStore{forcedConflicts: attemptNumberRetries}
	svc := NewPracticeService(attempts, newFakeBestStore())

	_, err := svc.RecordAttempt(1, 10, RecordAttemptRequest{
		Answers: answersWithCorrect(5, 3),
	})
	assert.ErrorIs(t, err, util.ErrAttemptConflict)
}

func TestBestScoreOnlyImproves(t *testing.T) {
	best := newFakeBestStore()
	svc := NewPracticeService(&fakeAttemptStore{}, best)

	// 60 → 90 → 75，最高分停在 90
	for _, correct := range []int{6, 9, 7} {
		_, err := svc.RecordAttempt(1, 10, RecordAttemptRequest{
			Answers: answersWithCorrect(10, correct),
		})
		require.NoError(t, err)
	}

	scores, err := best.ListByUser(1)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 90.0, scores[0].Percentage)
	assert.Equal(t, 9, scores[0].Score)
	assert.Equal(t, 10, scores[0].Total)

	history, err := svc.ListAttempts(1, 10)
	require.NoError(t, err)
	assert.Len(t, history.Attempts, 3)
	assert.Equal(t, 90.0, history.BestPercentage)
}

func TestListAttemptsOrdersByNumberDescending(t *testing.T) {
	svc := NewPracticeService(&fakeAttemptStore{}, newFakeBestStore())

	for i := 0; i < 3; i++ {
		_, err := svc.RecordAttempt(1, 10, RecordAttemptRequest{
			Answers: answersWithCorrect(5, i),
		})
		require.NoError(t, err)
	}

	history, err := svc.ListAttempts(1, 10)
	require.NoError(t, err)
	require.Len(t, history.Attempts, 3)
	assert.Equal(t, 3, history.Attempts[0].AttemptNumber)
	assert.Equal(t, 2, history.Attempts[1].AttemptNumber)
	assert.Equal(t, 1, history.Attempts[2].AttemptNumber)
}

func TestGetAttemptDetailOwnership(t *testing.T) {
	svc := NewPracticeService(&fakeAttemptStore{}, newFakeBestStore())

	attempt, err := svc.RecordAttempt(1, 10, RecordAttemptRequest{
		Answers: answersWithCorrect(5, 2),
	})
	require.NoError(t, err)

	detail, err := svc.GetAttemptDetail(1, 10, attempt.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Answers, 5)

	// 别人的记录按不存在处理
	_, err = svc.GetAttemptDetail(2, 10, attempt.ID)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	_, err = svc.GetAttemptDetail(1, 10, "no-such-id")
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}
