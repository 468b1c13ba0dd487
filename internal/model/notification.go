package model

// NotificationBroadcast 广播推送记录表，对应 notification_broadcasts
type NotificationBroadcast struct {
	BroadcastID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"broadcast_id"`
	Title       string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Body        string  `gorm:"type:text;not null"                             json:"body"`
	SentTo      int     `gorm:"not null;default:0"                             json:"sent_to"`
	FailedFor   int     `gorm:"not null;default:0"                             json:"failed_for"`
	CreatedBy   *string `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (NotificationBroadcast) TableName() string { return "notification_broadcasts" }
