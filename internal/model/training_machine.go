package model

import (
	"time"

	"gorm.io/datatypes"
)

// 培训设备运行状态
const (
	MachineStatusActive      = "active"
	MachineStatusStandby     = "standby"
	MachineStatusMaintenance = "maintenance"
	MachineStatusOffline     = "offline"
)

// MachineSpecifications 设备规格（JSONB）
type MachineSpecifications struct {
	MaxSpeed string `json:"max_speed,omitempty"`
	Power    string `json:"power,omitempty"`
	Capacity string `json:"capacity,omitempty"`
	Weight   string `json:"weight,omitempty"`
}

// MaintenanceRecord 单条维护记录（JSONB 数组元素）
type MaintenanceRecord struct {
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	PerformedBy string    `json:"performed_by"`
	Notes       string    `json:"notes,omitempty"`
}

// TrainingMachine 培训设备表，对应 training_machines
type TrainingMachine struct {
	MachineID          string                                    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"machine_id"`
	Name               string                                    `gorm:"type:varchar(150);not null"                     json:"name"`
	Description        string                                    `gorm:"type:text;not null;default:''"                  json:"description"`
	Type               string                                    `gorm:"type:varchar(50);not null"                      json:"type"`
	ModelNumber        string                                    `gorm:"type:varchar(100)"                              json:"model_number,omitempty"`
	Manufacturer       string                                    `gorm:"type:varchar(100)"                              json:"manufacturer,omitempty"`
	Year               *int                                      `json:"year,omitempty"`
	CenterID           string                                    `gorm:"type:uuid;not null"                             json:"center_id"`
	Latitude           *float64                                  `json:"latitude,omitempty"`
	Longitude          *float64                                  `json:"longitude,omitempty"`
	Status             string                                    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | standby | maintenance | offline
	QRCode             *string                                   `gorm:"column:qr_code;type:varchar(100)"               json:"qr_code,omitempty"`
	Model3DURL         *string                                   `gorm:"column:model_3d_url;type:text"                  json:"model_3d_url,omitempty"`
	Specifications     datatypes.JSONType[MachineSpecifications] `gorm:"type:jsonb;not null;default:'{}'"               json:"specifications"`
	MaintenanceHistory datatypes.JSONSlice[MaintenanceRecord]    `gorm:"type:jsonb;not null;default:'[]'"               json:"maintenance_history"`
	LastMaintenance    *time.Time                                `json:"last_maintenance,omitempty"`
	NextMaintenance    *time.Time                                `json:"next_maintenance,omitempty"`
	SoftDeleteModel

	// 关联
	Center *TrainingCenter `gorm:"foreignKey:CenterID;references:CenterID" json:"center,omitempty"`
}

// TableName 指定表名
func (TrainingMachine) TableName() string { return "training_machines" }

// AcceptsSessions 设备是否可用于签到训练
func (m *TrainingMachine) AcceptsSessions() bool {
	return m.Status == MachineStatusActive || m.Status == MachineStatusStandby
}
