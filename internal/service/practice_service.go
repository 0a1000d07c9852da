package service

import (
	"errors"
	"strconv"
	"time"

	"codelearn_backend/internal/model"
	"codelearn_backend/internal/util"
	"codelearn_backend/pkg/logger"
	"codelearn_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 及格线：正确率 80%
const practicePassPercentage = 80.0

// 并发抢号时的重试上限
const attemptNumberRetries = 5

// AttemptStore 练习尝试的持久化，只追加
type AttemptStore interface {
	Create(attempt *model.PracticeAttempt) error
	MaxAttemptNumber(userID, topicID uint) (int, error)
	ListByUserAndTopic(userID, topicID uint) ([]model.PracticeAttempt, error)
	FindByID(id string) (*model.PracticeAttempt, error)
}

// BestScoreStore 最高分缓存，UpsertIfGreater 必须是原子条件更新
type BestScoreStore interface {
	UpsertIfGreater(best *model.PracticeBestScore) error
	ListByUser(userID uint) ([]model.PracticeBestScore, error)
}

type PracticeService struct {
	AttemptRepo AttemptStore
	BestRepo    BestScoreStore
}

func NewPracticeService(attemptRepo AttemptStore, bestRepo BestScoreStore) *PracticeService {
	return &PracticeService{
		AttemptRepo: attemptRepo,
		BestRepo:    bestRepo,
	}
}

type PracticeAnswerInput struct {
	QuestionIndex  int    `json:"questionIndex"`
	QuestionText   string `json:"questionText"`
	SelectedOption int    `json:"selectedOption"`
	CorrectOption  int    `json:"correctOption"`
}

type RecordAttemptRequest struct {
	Answers          []PracticeAnswerInput `json:"answers" binding:"required"`
	TimeTakenSeconds int                   `json:"timeTakenSeconds"`
}

// AttemptSummary 历史列表视图，不带逐题作答明细
type AttemptSummary struct {
	ID               string    `json:"id"`
	AttemptNumber    int       `json:"attemptNumber"`
	Score            int       `json:"score"`
	Total            int       `json:"total"`
	Percentage       float64   `json:"percentage"`
	Passed           bool      `json:"passed"`
	TimeTakenSeconds int       `json:"timeTakenSeconds"`
	CreatedAt        time.Time `json:"createdAt"`
}

type AttemptHistory struct {
	Attempts       []AttemptSummary `json:"attempts"`
	BestPercentage float64          `json:"bestPercentage"`
}

// RecordAttempt 评一次选择题练习并入库
// 试次编号严格递增不重号：读最大编号后插入，撞唯一索引则重新取号
func (s *PracticeService) RecordAttempt(userID, topicID uint, req RecordAttemptRequest) (*model.PracticeAttempt, error) {
	if len(req.Answers) == 0 {
		return nil, util.ErrEmptyAnswers
	}

	total := len(req.Answers)
	score := 0
	answers := make([]model.PracticeAnswer, total)
	for i, a := range req.Answers {
		if a.SelectedOption == a.CorrectOption {
			score++
		}
		answers[i] = model.PracticeAnswer{
			QuestionIndex:  a.QuestionIndex,
			QuestionText:   a.QuestionText,
			SelectedOption: a.SelectedOption,
			CorrectOption:  a.CorrectOption,
		}
	}

	percentage := util.Percentage(score, total)
	passed := percentage >= practicePassPercentage

	attempt := &model.PracticeAttempt{
		UserID:           userID,
		TopicID:          topicID,
		Score:            score,
		Total:            total,
		Percentage:       percentage,
		Passed:           passed,
		TimeTakenSeconds: req.TimeTakenSeconds,
		Answers:          answers,
	}

	var err error
	for i := 0; i < attemptNumberRetries; i++ {
		var max int
		max, err = s.AttemptRepo.MaxAttemptNumber(userID, topicID)
		if err != nil {
			return nil, err
		}

		attempt.AttemptNumber = max + 1
		attempt.ID = ""
		err = s.AttemptRepo.Create(attempt)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		logger.Log.Debug("attempt number conflict, retrying",
			zap.Uint("userId", userID),
			zap.Uint("topicId", topicID),
			zap.Int("attemptNumber", attempt.AttemptNumber),
		)
	}
	if err != nil {
		return nil, util.ErrAttemptConflict
	}

	monitoring.PracticeAttempts.WithLabelValues(strconv.FormatBool(passed)).Inc()

	// 最高分缓存：只在更高分时覆盖，由存储层原子完成
	best := &model.PracticeBestScore{
		UserID:     userID,
		TopicID:    topicID,
		Score:      score,
		Total:      total,
		Percentage: percentage,
	}
	if err := s.BestRepo.UpsertIfGreater(best); err != nil {
		return nil, err
	}

	return attempt, nil
}

// ListAttempts 按试次编号倒序的历史摘要，附历史最高百分比
func (s *PracticeService) ListAttempts(userID, topicID uint) (*AttemptHistory, error) {
	attempts, err := s.AttemptRepo.ListByUserAndTopic(userID, topicID)
	if err != nil {
		return nil, err
	}

	history := &AttemptHistory{
		Attempts: make([]AttemptSummary, len(attempts)),
	}
	for i, a := range attempts {
		history.Attempts[i] = AttemptSummary{
			ID:               a.ID,
			AttemptNumber:    a.AttemptNumber,
			Score:            a.Score,
			Total:            a.Total,
			Percentage:       a.Percentage,
			Passed:           a.Passed,
			TimeTakenSeconds: a.TimeTakenSeconds,
			CreatedAt:        a.CreatedAt,
		}
		if a.Percentage > history.BestPercentage {
			history.BestPercentage = a.Percentage
		}
	}

	return history, nil
}

// GetAttemptDetail 带作答明细的单次记录，不属于该学员时按不存在处理
func (s *PracticeService) GetAttemptDetail(userID, topicID uint, attemptID string) (*model.PracticeAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	if attempt.UserID != userID || attempt.TopicID != topicID {
		return nil, util.ErrAttemptNotFound
	}

	return attempt, nil
}
