package model

// 用户角色
const (
	RoleTrainee = "trainee"
	RoleTrainer = "trainer"
	RoleAdmin   = "admin"
)

// 用户状态
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User 培训平台用户表，对应 users
// FCMToken 非空的用户会收到广播通知
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	FullName     string  `gorm:"type:varchar(100);not null"                     json:"full_name"`
	Phone        string  `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Role         string  `gorm:"type:varchar(20);not null;default:'trainee'"    json:"role"`   // trainee | trainer | admin
	PhotoURL     *string `gorm:"type:text"                                      json:"photo_url,omitempty"`
	Status       string  `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | inactive | suspended
	Verified     bool    `gorm:"not null;default:false"                         json:"verified"`
	FCMToken     *string `gorm:"column:fcm_token;type:text"                     json:"-"`
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
