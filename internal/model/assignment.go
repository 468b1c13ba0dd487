package model

import "time"

// 培训分配状态
const (
	AssignmentStatusActive    = "active"
	AssignmentStatusCompleted = "completed"
	AssignmentStatusExpired   = "expired"
	AssignmentStatusCancelled = "cancelled"
)

// UserTrainingAssignment 培训分配表，对应 user_training_assignments
// 不变量：CompletedAt 非空当且仅当 Status == completed
type UserTrainingAssignment struct {
	AssignmentID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	UserID       string     `gorm:"type:uuid;not null"                             json:"user_id"`
	ModuleID     string     `gorm:"type:uuid;not null"                             json:"module_id"`
	AssignedDate time.Time  `gorm:"not null"                                       json:"assigned_date"`
	ExpiryDate   time.Time  `gorm:"not null"                                       json:"expiry_date"`
	Status       string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | completed | expired | cancelled
	AssignedBy   *string    `gorm:"type:uuid"                                      json:"assigned_by,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	BaseModel

	// 关联
	User         *User                    `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	Module       *CourseModule            `gorm:"foreignKey:ModuleID;references:ModuleID"         json:"module,omitempty"`
	CenterAccess []AssignmentCenterAccess `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"center_access,omitempty"`
}

// TableName 指定表名
func (UserTrainingAssignment) TableName() string { return "user_training_assignments" }

// AssignmentCenterAccess 分配-中心访问授权表，对应 assignment_center_access
type AssignmentCenterAccess struct {
	AccessID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"access_id"`
	AssignmentID string `gorm:"type:uuid;not null"                             json:"assignment_id"`
	CenterID     string `gorm:"type:uuid;not null"                             json:"center_id"`
	BaseModel

	// 关联
	Center *TrainingCenter `gorm:"foreignKey:CenterID;references:CenterID" json:"center,omitempty"`
}

// TableName 指定表名
func (AssignmentCenterAccess) TableName() string { return "assignment_center_access" }
