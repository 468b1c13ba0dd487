package dto

import "time"

// ── 设备监控 DTO（沿用现场终端字段名） ──

// CreateAlertRequest 上报设备告警
type CreateAlertRequest struct {
	AlertType                string  `json:"alertType"                   binding:"omitempty,max=50"`
	MachineName              string  `json:"machineName"                 binding:"required,max=150"`
	MachineDefectURL         *string `json:"machine_defect_url"          binding:"omitempty,url"`
	MachineDesc              string  `json:"machine_desc"                binding:"omitempty,max=4000"`
	MachineLocation          string  `json:"machine_location"            binding:"required,max=255"`
	MachineUnderMaintenance  bool    `json:"machine_under_maintainance"`
	MachineMaintenanceStatus string  `json:"machine_maintainance_status" binding:"omitempty,maintenance_status"`
}

// UpdateAlertStatusRequest 更新告警处理状态
type UpdateAlertStatusRequest struct {
	MachineMaintenanceStatus string `json:"machine_maintainance_status" binding:"required,maintenance_status"`
	MachineUnderMaintenance  *bool  `json:"machine_under_maintainance"`
}

// AlertListRequest 告警列表查询参数
type AlertListRequest struct {
	PaginationRequest
	Status    string `form:"status"     binding:"omitempty,maintenance_status"`
	AlertType string `form:"alert_type" binding:"omitempty,max=50"`
}

// CreateMonitoredMachineRequest 登记监控设备运行记录
type CreateMonitoredMachineRequest struct {
	Username                 string     `json:"username"                    binding:"omitempty,max=100"`
	AlertType                string     `json:"alertType"                   binding:"omitempty,max=50"`
	MachineName              string     `json:"machineName"                 binding:"required,max=150"`
	MachineDefectURL         *string    `json:"machine_defect_url"          binding:"omitempty,url"`
	MachineDesc              string     `json:"machine_desc"                binding:"omitempty,max=4000"`
	MachineLocation          string     `json:"machine_location"            binding:"required,max=255"`
	MachineUnderMaintenance  bool       `json:"machine_under_maintainance"`
	MachineMaintenanceStatus string     `json:"machine_maintainance_status" binding:"omitempty,maintenance_status"`
	StartTime                *time.Time `json:"start_time"                  binding:"required"`
	EndTime                  *time.Time `json:"end_time"                    binding:"required"`
}
