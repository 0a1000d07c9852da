package repository

import (
	"codelearn_backend/internal/model"

	"gorm.io/gorm"
)

// PracticeAttemptRepository 练习尝试记录，只追加
type PracticeAttemptRepository struct {
	DB *gorm.DB
}

func NewPracticeAttemptRepository(db *gorm.DB) *PracticeAttemptRepository {
	return &PracticeAttemptRepository{DB: db}
}

// Create 插入一条尝试记录
// (user_id, topic_id, attempt_number) 上有唯一索引，并发下编号冲突
// 会返回 gorm.ErrDuplicatedKey，由上层重新取号重试
func (r *PracticeAttemptRepository) Create(attempt *model.PracticeAttempt) error {
	return r.DB.Create(attempt).Error
}

// MaxAttemptNumber 当前最大试次编号，没有记录时为 0
func (r *PracticeAttemptRepository) MaxAttemptNumber(userID, topicID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.PracticeAttempt{}).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *PracticeAttemptRepository) ListByUserAndTopic(userID, topicID uint) ([]model.PracticeAttempt, error) {
	var attempts []model.PracticeAttempt
	err := r.DB.
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Order("attempt_number DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *PracticeAttemptRepository) FindByID(id string) (*model.PracticeAttempt, error) {
	var attempt model.PracticeAttempt
	err := r.DB.Where("id = ?", id).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
