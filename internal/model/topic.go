package model

// Topic 课程主题，每个主题最多挂一个编程挑战
type Topic struct {
	BaseModel
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Order       int            `gorm:"default:0" json:"order"`
	Challenge   *ChallengeSpec `gorm:"foreignKey:TopicID" json:"challenge,omitempty"`
}

func (Topic) TableName() string {
	return "topics"
}
