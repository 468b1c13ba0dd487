package model

import "time"

// 训练记录状态
const (
	SessionStatusInProgress = "in-progress"
	SessionStatusCompleted  = "completed"
	SessionStatusApproved   = "approved"
	SessionStatusRejected   = "rejected"
)

// TrainingSession 训练记录表，对应 training_sessions
// HoursCompleted 仅在签退时计算一次，之后不再修改
type TrainingSession struct {
	SessionID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	UserID         string     `gorm:"type:uuid;not null"                             json:"user_id"`
	AssignmentID   string     `gorm:"type:uuid;not null"                             json:"assignment_id"`
	CenterID       string     `gorm:"type:uuid;not null"                             json:"center_id"`
	MachineID      string     `gorm:"type:uuid;not null"                             json:"machine_id"`
	CheckInTime    time.Time  `gorm:"not null"                                       json:"check_in_time"`
	CheckOutTime   *time.Time `json:"check_out_time,omitempty"`
	HoursCompleted float64    `gorm:"type:numeric(8,2);not null;default:0"           json:"hours_completed"`
	Status         string     `gorm:"type:varchar(20);not null;default:'in-progress'" json:"status"` // in-progress | completed | approved | rejected
	Notes          string     `gorm:"type:text;not null;default:''"                  json:"notes"`
	ClockSkew      bool       `gorm:"not null;default:false"                         json:"clock_skew"`
	ApprovedBy     *string    `gorm:"type:uuid"                                      json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	Rating         *int       `gorm:"type:smallint"                                  json:"rating,omitempty"`
	BaseModel

	// 关联
	Machine *TrainingMachine `gorm:"foreignKey:MachineID;references:MachineID" json:"machine,omitempty"`
	Center  *TrainingCenter  `gorm:"foreignKey:CenterID;references:CenterID"   json:"center,omitempty"`
}

// TableName 指定表名
func (TrainingSession) TableName() string { return "training_sessions" }
