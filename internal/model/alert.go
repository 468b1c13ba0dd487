package model

import "time"

// 设备维护处理状态
const (
	MaintenanceStatusPending  = "Pending"
	MaintenanceStatusProgress = "Progress"
	MaintenanceStatusResolved = "Resolved"
)

// MachineAlert 设备故障告警表，对应 machine_alerts（由现场终端上报）
type MachineAlert struct {
	AlertID                  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"alert_id"`
	AlertType                string  `gorm:"type:varchar(50);not null;default:'Normal'"     json:"alertType"`
	MachineName              string  `gorm:"type:varchar(150);not null"                     json:"machineName"`
	MachineDefectURL         *string `gorm:"type:text"                                      json:"machine_defect_url"`
	MachineDesc              string  `gorm:"type:text;not null;default:''"                  json:"machine_desc"`
	MachineLocation          string  `gorm:"type:varchar(255);not null"                     json:"machine_location"`
	MachineUnderMaintenance  bool    `gorm:"not null;default:false"                         json:"machine_under_maintainance"`
	MachineMaintenanceStatus string  `gorm:"type:varchar(20);not null;default:'Pending'"    json:"machine_maintainance_status"` // Pending | Progress | Resolved
	BaseModel
}

// TableName 指定表名
func (MachineAlert) TableName() string { return "machine_alerts" }

// MonitoredMachine 监控设备运行记录表，对应 monitored_machines
type MonitoredMachine struct {
	MonitoredMachineID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"machine_id"`
	Username                 string    `gorm:"type:varchar(100);not null;default:'guest'"     json:"username"`
	AlertType                string    `gorm:"type:varchar(50);not null;default:'Normal'"     json:"alertType"`
	MachineName              string    `gorm:"type:varchar(150);not null"                     json:"machineName"`
	MachineDefectURL         *string   `gorm:"type:text"                                      json:"machine_defect_url"`
	MachineDesc              string    `gorm:"type:text;not null;default:''"                  json:"machine_desc"`
	MachineLocation          string    `gorm:"type:varchar(255);not null"                     json:"machine_location"`
	MachineUnderMaintenance  bool      `gorm:"not null;default:false"                         json:"machine_under_maintainance"`
	MachineMaintenanceStatus string    `gorm:"type:varchar(20);not null;default:'Pending'"    json:"machine_maintainance_status"`
	StartTime                time.Time `gorm:"not null"                                       json:"start_time"`
	EndTime                  time.Time `gorm:"not null"                                       json:"end_time"`
	BaseModel
}

// TableName 指定表名
func (MonitoredMachine) TableName() string { return "monitored_machines" }
