package model

// ChallengeKind 挑战判题方式
type ChallengeKind string

const (
	// ChallengeWeb 由前端执行校验脚本，后端只记录结果
	ChallengeWeb ChallengeKind = "web"
	// ChallengeServer 后端调用代码执行服务逐用例判题
	ChallengeServer ChallengeKind = "server"
)

// ChallengeSpec 一个主题的编程挑战定义，判题引擎只读
type ChallengeSpec struct {
	BaseModel
	TopicID     uint          `gorm:"uniqueIndex;not null" json:"topicId"`
	Kind        ChallengeKind `gorm:"type:enum('web','server');not null" json:"kind"`
	Language    string        `gorm:"size:30" json:"language"`
	StarterCode string        `gorm:"type:text" json:"starterCode"`
	// ExpectedOutput 没有测试用例时的兜底期望输出
	ExpectedOutput string              `gorm:"type:text" json:"-"`
	TestScript     string              `gorm:"type:text" json:"testScript,omitempty"`
	TestCases      []ChallengeTestCase `gorm:"foreignKey:SpecID" json:"-"`
}

func (ChallengeSpec) TableName() string {
	return "challenge_specs"
}

// ChallengeTestCase 服务端判题用例，按 OrderIndex 顺序执行
type ChallengeTestCase struct {
	BaseModel
	SpecID         uint   `gorm:"index;not null" json:"specId"`
	OrderIndex     int    `gorm:"default:0" json:"orderIndex"`
	Input          string `gorm:"type:text" json:"input"`
	ExpectedOutput string `gorm:"type:text" json:"expectedOutput"`
}

func (ChallengeTestCase) TableName() string {
	return "challenge_test_cases"
}
