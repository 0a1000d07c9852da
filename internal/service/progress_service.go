package service

import (
	"math"
)

// ProgressSummary 学员总进度
// practicePoints = round(Σ 各主题最高分百分比)
// codingPoints   = 100 × 判题通过的主题数
type ProgressSummary struct {
	PracticePoints  int `json:"practicePoints"`
	CodingPoints    int `json:"codingPoints"`
	TotalPoints     int `json:"totalPoints"`
	TopicsCompleted int `json:"topicsCompleted"`
}

type ProgressService struct {
	BestRepo       BestScoreStore
	SubmissionRepo SubmissionStore
}

func NewProgressService(bestRepo BestScoreStore, submissionRepo SubmissionStore) *ProgressService {
	return &ProgressService{
		BestRepo:       bestRepo,
		SubmissionRepo: submissionRepo,
	}
}

// GetProgress 纯读聚合，无副作用
// 同一主题练习和编程都有记录时只计一次完成
func (s *ProgressService) GetProgress(userID uint) (*ProgressSummary, error) {
	bestScores, err := s.BestRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	submissions, err := s.SubmissionRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	practiceSum := 0.0
	topics := make(map[uint]struct{})
	for _, b := range bestScores {
		practiceSum += b.Percentage
		topics[b.TopicID] = struct{}{}
	}

	codingPoints := 0
	for _, sub := range submissions {
		if sub.Passed {
			codingPoints += 100
		}
		topics[sub.TopicID] = struct{}{}
	}

	practicePoints := int(math.Round(practiceSum))

	return &ProgressSummary{
		PracticePoints:  practicePoints,
		CodingPoints:    codingPoints,
		TotalPoints:     practicePoints + codingPoints,
		TopicsCompleted: len(topics),
	}, nil
}
