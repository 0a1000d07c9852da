package repository

import (
	"codelearn_backend/internal/model"

	"gorm.io/gorm"
)

// UserRepository 学员账号只读访问，写入归外部认证服务
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// FindNamesByIDs 批量取显示名，排行榜用
func (r *UserRepository) FindNamesByIDs(ids []uint) (map[uint]string, error) {
	if len(ids) == 0 {
		return map[uint]string{}, nil
	}

	var users []model.User
	err := r.DB.Select("id", "name").Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}
