package service

import (
	"testing"

	"codelearn_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProgressAggregation(t *testing.T) {
	best := newFakeBestStore()
	submissions := newFakeSubmissionStore()

	require.NoError(t, best.UpsertIfGreater(&model.PracticeBestScore{UserID: 1, TopicID: 10, Score: 9, Total: 10, Percentage: 90}))
	require.NoError(t, best.UpsertIfGreater(&model.PracticeBestScore{UserID: 1, TopicID: 11, Score: 2, Total: 3, Percentage: 66.67}))
	// 其他学员的数据不掺进来
	require.NoError(t, best.UpsertIfGreater(&model.PracticeBestScore{UserID: 2, TopicID: 10, Score: 10, Total: 10, Percentage: 100}))

	// 主题10同时有练习最高分和编程通过，完成数只计一次
	require.NoError(t, submissions.Upsert(&model.CodingSubmission{UserID: 1, TopicID: 10, Passed: true}))
	require.NoError(t, submissions.Upsert(&model.CodingSubmission{UserID: 1, TopicID: 12, Passed: true}))
	require.NoError(t, submissions.Upsert(&model.CodingSubmission{UserID: 1, TopicID: 13, Passed: false}))

	svc := NewProgressService(best, submissions)
	progress, err := svc.GetProgress(1)
	require.NoError(t, err)

	// round(90 + 66.67) = 157
	assert.Equal(t, 157, progress.PracticePoints)
	// 两个通过的提交，失败的不计分
	assert.Equal(t, 200, progress.CodingPoints)
	assert.Equal(t, 357, progress.TotalPoints)
	// 主题 10、11、12、13
	assert.Equal(t, 4, progress.TopicsCompleted)
}

func TestGetProgressEmpty(t *testing.T) {
	svc := NewProgressService(newFakeBestStore(), newFakeSubmissionStore())

	progress, err := svc.GetProgress(1)
	require.NoError(t, err)

	assert.Equal(t, 0, progress.PracticePoints)
	assert.Equal(t, 0, progress.CodingPoints)
	assert.Equal(t, 0, progress.TotalPoints)
	assert.Equal(t, 0, progress.TopicsCompleted)
}
