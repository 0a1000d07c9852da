package model

// CodingSubmission 每个 (user, topic) 只保留最新一条判题结论
// 重新提交整行覆盖，不保留历史
type CodingSubmission struct {
	BaseModel
	UserID   uint   `gorm:"not null;uniqueIndex:idx_submission_user_topic,priority:1" json:"userId"`
	TopicID  uint   `gorm:"not null;uniqueIndex:idx_submission_user_topic,priority:2" json:"topicId"`
	Passed   bool   `gorm:"not null" json:"passed"`
	Code     string `gorm:"type:text" json:"code"`
	Output   string `gorm:"type:text" json:"output"`
	Language string `gorm:"size:30" json:"language"`
}

func (CodingSubmission) TableName() string {
	return "coding_submissions"
}
