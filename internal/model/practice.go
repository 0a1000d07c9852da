package model

// PracticeAnswer 单题作答，作为 JSON 存进尝试记录
type PracticeAnswer struct {
	QuestionIndex  int    `json:"questionIndex"`
	QuestionText   string `json:"questionText,omitempty"`
	SelectedOption int    `json:"selectedOption"`
	CorrectOption  int    `json:"correctOption"`
}

// PracticeAttempt 一次选择题练习，只追加、不可修改
// 同一 (user, topic) 下 attempt_number 从 1 起连续递增
type PracticeAttempt struct {
	UUIDBase
	UserID           uint             `gorm:"not null;uniqueIndex:idx_attempt_seq,priority:1" json:"userId"`
	TopicID          uint             `gorm:"not null;uniqueIndex:idx_attempt_seq,priority:2" json:"topicId"`
	AttemptNumber    int              `gorm:"not null;uniqueIndex:idx_attempt_seq,priority:3" json:"attemptNumber"`
	Score            int              `gorm:"not null" json:"score"`
	Total            int              `gorm:"not null" json:"total"`
	Percentage       float64          `gorm:"type:decimal(5,2);not null" json:"percentage"`
	Passed           bool             `gorm:"not null" json:"passed"`
	TimeTakenSeconds int              `gorm:"default:0" json:"timeTakenSeconds"`
	Answers          []PracticeAnswer `gorm:"serializer:json;type:json" json:"answers,omitempty"`
}

func (PracticeAttempt) TableName() string {
	return "practice_attempts"
}

// PracticeBestScore 每个 (user, topic) 唯一的最高分缓存
// 只通过 upsert-if-greater 更新，百分比不会下降
type PracticeBestScore struct {
	BaseModel
	UserID     uint    `gorm:"not null;uniqueIndex:idx_best_user_topic,priority:1" json:"userId"`
	TopicID    uint    `gorm:"not null;uniqueIndex:idx_best_user_topic,priority:2" json:"topicId"`
	Score      int     `gorm:"not null" json:"score"`
	Total      int     `gorm:"not null" json:"total"`
	Percentage float64 `gorm:"type:decimal(5,2);not null" json:"percentage"`
}

func (PracticeBestScore) TableName() string {
	return "practice_best_scores"
}
