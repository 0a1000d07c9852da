package repository

import (
	"codelearn_backend/internal/model"

	"gorm.io/gorm"
)

// ChallengeRepository 挑战定义存储，判题引擎侧只读
type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

// FindByTopic 取某主题的挑战定义，测试用例按执行顺序预载
func (r *ChallengeRepository) FindByTopic(topicID uint) (*model.ChallengeSpec, error) {
	var spec model.ChallengeSpec
	err := r.DB.
		Preload("TestCases", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("topic_id = ?", topicID).
		First(&spec).Error
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
