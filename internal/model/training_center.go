package model

import "gorm.io/datatypes"

// TrainingCenter 培训中心表，对应 training_centers
type TrainingCenter struct {
	CenterID        string                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"center_id"`
	Name            string                      `gorm:"type:varchar(150);not null"                     json:"name"`
	Description     string                      `gorm:"type:text;not null;default:''"                  json:"description"`
	Address         string                      `gorm:"type:varchar(255);not null"                     json:"address"`
	City            string                      `gorm:"type:varchar(100);not null"                     json:"city"`
	State           string                      `gorm:"type:varchar(100);not null"                     json:"state"`
	Pincode         string                      `gorm:"type:varchar(20);not null"                      json:"pincode"`
	Latitude        *float64                    `json:"latitude,omitempty"`
	Longitude       *float64                    `json:"longitude,omitempty"`
	ContactNumber   string                      `gorm:"type:varchar(30);not null"                      json:"contact_number"`
	ContactEmail    string                      `gorm:"type:varchar(255);not null"                     json:"contact_email"`
	Status          string                      `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | inactive
	Specializations datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"               json:"specializations"`
	SoftDeleteModel

	// 派生字段，查询时填充
	MachineCount int64 `gorm:"-" json:"machine_count"`
}

// TableName 指定表名
func (TrainingCenter) TableName() string { return "training_centers" }
