package repository

import (
	"codelearn_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CodingSubmissionRepository 每 (user, topic) 一行的最新判题结论
type CodingSubmissionRepository struct {
	DB *gorm.DB
}

func NewCodingSubmissionRepository(db *gorm.DB) *CodingSubmissionRepository {
	return &CodingSubmissionRepository{DB: db}
}

// Upsert 覆盖式写入，重新提交丢弃旧结论（last-write-wins）
func (r *CodingSubmissionRepository) Upsert(submission *model.CodingSubmission) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"passed", "code", "output", "language", "updated_at",
		}),
	}).Create(submission).Error
}

func (r *CodingSubmissionRepository) FindByUserAndTopic(userID, topicID uint) (*model.CodingSubmission, error) {
	var submission model.CodingSubmission
	err := r.DB.Where("user_id = ? AND topic_id = ?", userID, topicID).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *CodingSubmissionRepository) ListByUser(userID uint) ([]model.CodingSubmission, error) {
	var submissions []model.CodingSubmission
	err := r.DB.Where("user_id = ?", userID).Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}
