package models

import (
	"time"
)

// 用户角色
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User 用户模型
type User struct {
	ID              string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(100)" json:"name"`
	Email           string    `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Password        string    `gorm:"type:varchar(255)" json:"-"`
	ProfileImageURL string    `gorm:"type:varchar(255)" json:"profileImageUrl"`
	Role            string    `gorm:"type:varchar(20);default:member" json:"role"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsAdmin 判断用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Principal 经过认证的调用方身份，由认证中间件注入
type Principal struct {
	ID   string
	Role string
}

// IsAdmin 判断调用方是否为管理员
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
