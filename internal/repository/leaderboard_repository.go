package repository

import (
	"codelearn_backend/internal/model"

	"gorm.io/gorm"
)

// UserPracticeSum 某学员全部主题最高分百分比之和
type UserPracticeSum struct {
	UserID uint
	Sum    float64
}

// UserPassedCount 某学员判题通过的提交数
type UserPassedCount struct {
	UserID uint
	Count  int
}

// LeaderboardRepository 排行榜的聚合查询，只读
// 排行榜始终由 practice_best_scores + coding_submissions 现算，
// 不落地为独立可变状态
type LeaderboardRepository struct {
	DB *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{DB: db}
}

func (r *LeaderboardRepository) PracticeSums() ([]UserPracticeSum, error) {
	var sums []UserPracticeSum
	err := r.DB.Model(&model.PracticeBestScore{}).
		Select("user_id, SUM(percentage) as sum").
		Group("user_id").
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	return sums, nil
}

func (r *LeaderboardRepository) PassedCounts() ([]UserPassedCount, error) {
	var counts []UserPassedCount
	err := r.DB.Model(&model.CodingSubmission{}).
		Select("user_id, COUNT(*) as count").
		Where("passed = ?", true).
		Group("user_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
