package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"codelearn_backend/internal/model"
	"codelearn_backend/internal/util"
	"codelearn_backend/pkg/logger"
	"codelearn_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 前端校验脚本里单条断言的通过标记
const clientTestPassMarker = "PASS"

// ChallengeStore 挑战定义存储，判题侧只读
type ChallengeStore interface {
	FindByTopic(topicID uint) (*model.ChallengeSpec, error)
}

// SubmissionStore 判题结论存储，每 (user, topic) 只留最新一条
type SubmissionStore interface {
	Upsert(submission *model.CodingSubmission) error
	FindByUserAndTopic(userID, topicID uint) (*model.CodingSubmission, error)
	ListByUser(userID uint) ([]model.CodingSubmission, error)
}

type JudgeService struct {
	ChallengeRepo  ChallengeStore
	SubmissionRepo SubmissionStore
	Executor       CodeExecutor
	ExecTimeout    time.Duration
}

func NewJudgeService(challengeRepo ChallengeStore, submissionRepo SubmissionStore, executor CodeExecutor, execTimeout time.Duration) *JudgeService {
	return &JudgeService{
		ChallengeRepo:  challengeRepo,
		SubmissionRepo: submissionRepo,
		Executor:       executor,
		ExecTimeout:    execTimeout,
	}
}

type JudgeRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language"`
	// ClientTestResults 前端脚本校验类挑战的逐断言结果
	ClientTestResults []string `json:"clientTestResults"`
}

// TestCaseResult 单个用例的判题反馈，只返回给调用方，不入库
type TestCaseResult struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
}

type JudgeResult struct {
	Passed      bool             `json:"passed"`
	Output      string           `json:"output"`
	Language    string           `json:"language"`
	CaseResults []TestCaseResult `json:"caseResults,omitempty"`
}

// SubmissionView 查询当前结论；无提交不是错误，Exists=false
type SubmissionView struct {
	Exists     bool                    `json:"exists"`
	Submission *model.CodingSubmission `json:"submission,omitempty"`
}

// JudgeSubmission 判一次编程挑战提交并覆盖写入当前结论
func (s *JudgeService) JudgeSubmission(ctx context.Context, userID, topicID uint, req JudgeRequest) (*JudgeResult, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, util.ErrEmptyCode
	}

	spec, err := s.ChallengeRepo.FindByTopic(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = spec.Language
	}

	var result *JudgeResult
	switch spec.Kind {
	case model.ChallengeWeb:
		result = s.judgeWeb(spec, req.ClientTestResults)
	case model.ChallengeServer:
		result = s.judgeServer(ctx, spec, req.Code, language)
	default:
		return nil, fmt.Errorf("unknown challenge kind: %s", spec.Kind)
	}
	result.Language = language

	submission := &model.CodingSubmission{
		UserID:   userID,
		TopicID:  topicID,
		Passed:   result.Passed,
		Code:     req.Code,
		Output:   result.Output,
		Language: language,
	}
	if err := s.SubmissionRepo.Upsert(submission); err != nil {
		return nil, err
	}

	monitoring.JudgeVerdicts.WithLabelValues(string(spec.Kind), strconv.FormatBool(result.Passed)).Inc()
	logger.Log.Info("coding submission judged",
		zap.Uint("userId", userID),
		zap.Uint("topicId", topicID),
		zap.String("kind", string(spec.Kind)),
		zap.Bool("passed", result.Passed),
	)

	return result, nil
}

// judgeWeb 前端校验类挑战：后端不执行任何代码
func (s *JudgeService) judgeWeb(spec *model.ChallengeSpec, clientResults []string) *JudgeResult {
	// 没配校验脚本就是无自动检查的展示型挑战，提交即完成
	if strings.TrimSpace(spec.TestScript) == "" {
		return &JudgeResult{Passed: true, Output: "Completed"}
	}

	// 配了脚本但前端没带结果：判负，等学员在前端重跑校验
	if len(clientResults) == 0 {
		return &JudgeResult{Passed: false, Output: "Test results not received"}
	}

	passed := true
	for _, outcome := range clientResults {
		if outcome != clientTestPassMarker {
			passed = false
			break
		}
	}

	return &JudgeResult{
		Passed: passed,
		Output: strings.Join(clientResults, "\n"),
	}
}

// judgeServer 服务端执行类挑战：逐用例串行执行，单用例失败不中断
func (s *JudgeService) judgeServer(ctx context.Context, spec *model.ChallengeSpec, code, language string) *JudgeResult {
	// 无用例时执行一次，与兜底期望输出比较
	if len(spec.TestCases) == 0 {
		actual, passed := s.runCase(ctx, code, language, "", spec.ExpectedOutput)
		return &JudgeResult{
			Passed: passed,
			Output: actual,
			CaseResults: []TestCaseResult{{
				Expected: strings.TrimSpace(spec.ExpectedOutput),
				Actual:   actual,
				Passed:   passed,
			}},
		}
	}

	results := make([]TestCaseResult, len(spec.TestCases))
	passedCount := 0
	for i, tc := range spec.TestCases {
		actual, passed := s.runCase(ctx, code, language, tc.Input, tc.ExpectedOutput)
		results[i] = TestCaseResult{
			Input:    tc.Input,
			Expected: strings.TrimSpace(tc.ExpectedOutput),
			Actual:   actual,
			Passed:   passed,
		}
		if passed {
			passedCount++
		}
	}

	return &JudgeResult{
		Passed:      passedCount == len(spec.TestCases),
		Output:      fmt.Sprintf("%d/%d test cases passed", passedCount, len(spec.TestCases)),
		CaseResults: results,
	}
}

// runCase 执行一个用例；执行失败折算为该用例判负，失败文本作为 actual
func (s *JudgeService) runCase(ctx context.Context, code, language, stdin, expected string) (actual string, passed bool) {
	callCtx, cancel := context.WithTimeout(ctx, s.ExecTimeout)
	defer cancel()

	output, err := s.Executor.Execute(callCtx, code, language, stdin)
	if err != nil {
		return err.Error(), false
	}

	actual = strings.TrimSpace(output)
	return actual, actual == strings.TrimSpace(expected)
}

// GetSubmission 当前判题结论；从未提交返回 Exists=false，不报错
func (s *JudgeService) GetSubmission(userID, topicID uint) (*SubmissionView, error) {
	submission, err := s.SubmissionRepo.FindByUserAndTopic(userID, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SubmissionView{Exists: false}, nil
		}
		return nil, err
	}
	return &SubmissionView{Exists: true, Submission: submission}, nil
}

// GetChallenge 学员侧的挑战定义视图，期望输出与用例不下发
func (s *JudgeService) GetChallenge(topicID uint) (*model.ChallengeSpec, error) {
	spec, err := s.ChallengeRepo.FindByTopic(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}
	return spec, nil
}
