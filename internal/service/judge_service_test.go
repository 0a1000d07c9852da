package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"codelearn_backend/internal/model"
	"codelearn_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJudgeService(specs map[uint]*model.ChallengeSpec, executor *fakeExecutor) (*JudgeService, *fakeSubmissionStore) {
	if executor == nil {
		executor = &fakeExecutor{fn: func(code, language, stdin string) (string, error) {
			return "", errors.New("executor should not be called")
		}}
	}
	submissions := newFakeSubmissionStore()
	svc := NewJudgeService(&fakeChallengeStore{specs: specs}, submissions, executor, 5*time.Second)
	return svc, submissions
}

func TestJudgeRejectsEmptyCode(t *testing.T) {
	svc, _ := newJudgeService(nil, nil)

	_, err := svc.JudgeSubmission(context.Background(), 1, 10, JudgeRequest{Code: "   \n"})
	assert.ErrorIs(t, err, util.ErrEmptyCode)
}

func TestJudgeMissingChallenge(t *testing.T) {
	svc, _ := newJudgeService(map[uint]*model.ChallengeSpec{}, nil)

	_, err := svc.JudgeSubmission(context.Background(), 1, 10, JudgeRequest{Code: "print(1)"})
	assert.ErrorIs(t, err, util.ErrChallengeNotFound)
}

func TestJudgeWebWithoutScriptAutoPasses(t *testing.T) {
	specs := map[uint]*model.ChallengeSpec{
		10: {Kind: model.ChallengeWeb},
	}
	svc, _ := newJudgeService(specs, nil)

	result, err := svc.JudgeSubmission(context.Background(), 1, 10, JudgeRequest{Code: "<h1>done</h1>"})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, "Completed", result.Output)

	view, err := svc.GetSubmission(1, 10)
	require.NoError(t, err)
	require.True(t, view.Exists)
	assert.True(t, view.Submission.Passed)
	assert.Equal(t, "Completed", view.Submission.Output)
}

func TestJudgeWebScriptedResults(t *testing.T) {
	specs := map[uint]*model.ChallengeSpec{
		10: {Kind: model.ChallengeWeb, TestScript: "assert(document.title)"},
	}

	cases := []struct {
		name       string
		results    []string
		wantPassed bool
		wantOutput string
	}{
		{"all pass", []string{"PASS", "PASS"}, true, "PASS\nPASS"},
		{"one failure", []string{"PASS", "FAIL: x"}, false, "PASS\nFAIL: x"},
		{"results missing", nil, false, "Test results not received"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newJudgeService(specs, nil)

			result, err := svc.JudgeSubmission(context.Background(), 1, 10, JudgeRequest{
				Code:              "document.title = 'x'",
				ClientTestResults: tc.results,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.wantPassed, result.Passed)
			assert.Equal(t, tc.wantOutput, result.Output)
		})
	}
}

func TestJudgeServerAllCasesPass(t *testing.T) {
	specs := map[uint]*model.ChallengeSpec{
		10: {
			Kind:     model.ChallengeServer,
			Language: "python",
			TestCases: []model.ChallengeTestCase{
				{Input: "3\n4", ExpectedOutput: "7"},
				{Input: "10\n-2", ExpectedOutput: "8"},
			},
		},
	}
	// 模拟 a+b：按 stdin 应答
	executor := &fakeExecutor{fn: func(code, language, stdin string) (string, error) {
		outputs := map[string]string{"3\n4": "7\n", "10\n-2": "8\n"}
		return outputs[stdin], nil
	}}
	svc, _ := newJudgeService(specs, executor)

	result, err := svc.JudgeSubmission(context.Background(), 1, 10, JudgeRequest{Code: "print(a+b)"})
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.Equal(t, "2/2 test cases passed", result.Output)
	assert.Equal(t, 2, executor.calls)
	require.Len(t, result.CaseResults, 2)
	assert.Equal(t, "7", result.CaseResults[0].Actual)
	assert.True(t, result.CaseResults[0].Passed)

	view, err := svc.GetSubmission(1, 10)
	require.NoError(t, err)
	assert.True(t, view.Submission.Passed)
	assert.Equal(t, "python", view.Submission.Language)
}

func TestJudgeServerFailureIsLocalToCase(t *testing.T) {
	specs := map[uint]*model.ChallengeSpec{
		10: {
			Kind:     model.ChallengeServer,
			Language: "python",
			TestCases: []model.ChallengeTestCase{
				{Input: "1", ExpectedOutput: "1"},
				{Input: "2", ExpectedOutput: "2"},
				{Input: "3", ExpectedOutput: "3"},
			},
		},
	}
	// 第二个用例执行失败，其余正常
	executor := &fakeExecutor{fn: func(code, language, stdin string) (string, error) {
		if stdin == "2" {
			return "", errors.New("execution timed out after 5s")
		}
		return stdin, nil
	}}
	svc, _ := newJudgeService(specs, executor)

	result, err := svc.JudgeSubmission(context.Background(), 1, 10, JudgeRequest{Code: "echo"})
	require.NoError(t, err)

	// 失败只影响该用例，后续用例照常执行
	assert.False(t, result.Passed)
	assert.Equal(t, 3, executor.calls)
	require.Len(t, result.CaseResults, 3)
	assert.True(t, result.CaseResults[0].Passed)
	assert.False(t, result.CaseResults[1].Passed)
	assert.Equal(t, "execution timed out after 5s", result.CaseResults[1].Actual)
	assert.True(t, result.CaseResults[2].Passed)
	assert.Equal(t, "1/3 test cases passed", result.Output)
}

func TestJudgeServerFallbackExpectedOutput(t *testing.T) {
	specs := map[uint]*model.ChallengeSpec{
		10: {
			Kind:           model.ChallengeServer,
			Language:       "c",
			ExpectedOutput: "Hello, World!\n",
		},
	}
	executor := &fakeExecutor{fn: func(code, language, stdin string) (string, error) {
		assert.Empty(t, stdin)
		return "Hello, World!", nil
	}}
	svc, _ := newJudgeService(specs, executor)

	result, err := svc.JudgeSubmission(context.Background(), 1, 10, JudgeRequest{Code: "main(){}"})
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.Equal(t, 1, executor.calls)
	require.Len(t, result.CaseResults, 1)
	assert.Equal(t, "Hello, World!", result.CaseResults[0].Expected)
}

func TestResubmissionOverwritesSingleRow(t *testing.T) {
	specs := map[uint]*model.ChallengeSpec{
		10: {Kind: model.ChallengeWeb, TestScript: "check()"},
	}
	svc, submissions := newJudgeService(specs, nil)

	_, err := svc.JudgeSubmission(context.Background(), 1, 10, JudgeRequest{
		Code:              "v1",
		ClientTestResults: []string{"FAIL: broken"},
	})
	require.NoError(t, err)

	view, _ := svc.GetSubmission(1, 10)
	assert.False(t, view.Submission.Passed)
	assert.Equal(t, "v1", view.Submission.Code)

	_, err = svc.JudgeSubmission(context.Background(), 1, 10, JudgeRequest{
		Code:              "v2",
		ClientTestResults: []string{"PASS"},
	})
	require.NoError(t, err)

	// 覆盖写入，不产生第二行
	assert.Equal(t, 1, submissions.count())
	view, _ = svc.GetSubmission(1, 10)
	assert.True(t, view.Submission.Passed)
	assert.Equal(t, "v2", view.Submission.Code)

	// 同样的提交再来一次，结论不变
	_, err = svc.JudgeSubmission(context.Background(), 1, 10, JudgeRequest{
		Code:              "v2",
		ClientTestResults: []string{"PASS"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, submissions.count())
}

func TestGetSubmissionWhenNoneExists(t *testing.T) {
	svc, _ := newJudgeService(nil, nil)

	view, err := svc.GetSubmission(1, 10)
	require.NoError(t, err)
	assert.False(t, view.Exists)
	assert.Nil(t, view.Submission)
}

func TestJudgeUsesChallengeLanguageWhenUnspecified(t *testing.T) {
	specs := map[uint]*model.ChallengeSpec{
		10: {
			Kind:           model.ChallengeServer,
			Language:       "python",
			ExpectedOutput: "ok",
		},
	}
	var seenLanguage string
	executor := &fakeExecutor{fn: func(code, language, stdin string) (string, error) {
		seenLanguage = language
		return "ok", nil
	}}
	svc, _ := newJudgeService(specs, executor)

	result, err := svc.JudgeSubmission(context.Background(), 1, 10, JudgeRequest{Code: "print('ok')"})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, "python", seenLanguage)
	assert.True(t, strings.EqualFold("python", result.Language))
}
