// 手动触发最高分缓存回填脚本
//
// practice_best_scores 正常由提交路径维护。此脚本仅用于手动修复，
// 例如批量导入历史练习数据后重建缓存。回填完成后应清一次排行榜缓存
// (DELETE /api/leaderboard/cache)。
//
// 用法: go run scripts/backfill_best_scores.go
package main

import (
	"log"

	"codelearn_backend/internal/config"
	"codelearn_backend/internal/model"
	"codelearn_backend/internal/repository"
	"codelearn_backend/pkg/database"
	"codelearn_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	// 每个 (user, topic) 取百分比最高的一次尝试
	var rows []model.PracticeBestScore
	err = db.Raw(`
		SELECT a.user_id, a.topic_id, a.score, a.total, a.percentage
		FROM practice_attempts a
		WHERE a.percentage = (
			SELECT MAX(b.percentage)
			FROM practice_attempts b
			WHERE b.user_id = a.user_id AND b.topic_id = a.topic_id
		)`).Scan(&rows).Error
	if err != nil {
		log.Fatalf("查询尝试记录失败: %v", err)
	}

	// 走与提交路径相同的条件更新，重复执行是幂等的
	bestRepo := repository.NewPracticeBestScoreRepository(db)
	for _, row := range rows {
		best := row
		if err := bestRepo.UpsertIfGreater(&best); err != nil {
			log.Fatalf("回填 user=%d topic=%d 失败: %v", row.UserID, row.TopicID, err)
		}
	}

	log.Printf("最高分缓存回填完成，共处理 %d 条记录", len(rows))
}
