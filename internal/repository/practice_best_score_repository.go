package repository

import (
	"codelearn_backend/internal/model"

	"gorm.io/gorm"
)

// PracticeBestScoreRepository 每 (user, topic) 一行的最高分缓存
type PracticeBestScoreRepository struct {
	DB *gorm.DB
}

func NewPracticeBestScoreRepository(db *gorm.DB) *PracticeBestScoreRepository {
	return &PracticeBestScoreRepository{DB: db}
}

// UpsertIfGreater 单条 SQL 完成“只在更高分时覆盖”的条件更新，
// 避免引擎内读取-修改-写回造成的并发丢更新；同分保留先写入的一方。
// score/total 的赋值必须排在 percentage 之前，MySQL 按顺序求值。
func (r *PracticeBestScoreRepository) UpsertIfGreater(best *model.PracticeBestScore) error {
	return r.DB.Exec(`
		INSERT INTO practice_best_scores (user_id, topic_id, score, total, percentage, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			score      = IF(VALUES(percentage) > percentage, VALUES(score), score),
			total      = IF(VALUES(percentage) > percentage, VALUES(total), total),
			updated_at = IF(VALUES(percentage) > percentage, NOW(), updated_at),
			percentage = GREATEST(percentage, VALUES(percentage))`,
		best.UserID, best.TopicID, best.Score, best.Total, best.Percentage,
	).Error
}

func (r *PracticeBestScoreRepository) ListByUser(userID uint) ([]model.PracticeBestScore, error) {
	var scores []model.PracticeBestScore
	err := r.DB.Where("user_id = ?", userID).Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}
