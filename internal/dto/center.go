package dto

import "time"

// ── 培训中心 DTO ──

// CreateCenterRequest 创建培训中心请求
type CreateCenterRequest struct {
	Name            string   `json:"name"            binding:"required,min=2,max=150"`
	Description     string   `json:"description"     binding:"omitempty,max=2000"`
	Address         string   `json:"address"         binding:"required,max=255"`
	City            string   `json:"city"            binding:"required,max=100"`
	State           string   `json:"state"           binding:"required,max=100"`
	Pincode         string   `json:"pincode"         binding:"required,max=20"`
	Latitude        *float64 `json:"latitude"        binding:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude"       binding:"omitempty,longitude"`
	ContactNumber   string   `json:"contact_number"  binding:"required,max=30"`
	ContactEmail    string   `json:"contact_email"   binding:"required,email"`
	Specializations []string `json:"specializations" binding:"omitempty,dive,min=1,max=50"`
}

// UpdateCenterRequest 更新培训中心请求
type UpdateCenterRequest struct {
	Name            *string   `json:"name"            binding:"omitempty,min=2,max=150"`
	Description     *string   `json:"description"     binding:"omitempty,max=2000"`
	Address         *string   `json:"address"         binding:"omitempty,max=255"`
	City            *string   `json:"city"            binding:"omitempty,max=100"`
	State           *string   `json:"state"           binding:"omitempty,max=100"`
	Pincode         *string   `json:"pincode"         binding:"omitempty,max=20"`
	Latitude        *float64  `json:"latitude"        binding:"omitempty,latitude"`
	Longitude       *float64  `json:"longitude"       binding:"omitempty,longitude"`
	ContactNumber   *string   `json:"contact_number"  binding:"omitempty,max=30"`
	ContactEmail    *string   `json:"contact_email"   binding:"omitempty,email"`
	Status          *string   `json:"status"          binding:"omitempty,oneof=active inactive"`
	Specializations *[]string `json:"specializations"`
}

// CenterListRequest 培训中心列表查询参数
type CenterListRequest struct {
	PaginationRequest
	City   string `form:"city"   binding:"omitempty,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

// ── 培训设备 DTO ──

// CreateMachineRequest 创建培训设备请求
type CreateMachineRequest struct {
	Name            string                 `json:"name"             binding:"required,min=2,max=150"`
	Description     string                 `json:"description"      binding:"omitempty,max=2000"`
	Type            string                 `json:"type"             binding:"required,max=50"`
	ModelNumber     string                 `json:"model_number"     binding:"required,max=100"`
	Manufacturer    string                 `json:"manufacturer"     binding:"omitempty,max=100"`
	Year            *int                   `json:"year"             binding:"omitempty,min=1950,max=2100"`
	CenterID        string                 `json:"center_id"        binding:"required,uuid"`
	Latitude        *float64               `json:"latitude"         binding:"omitempty,latitude"`
	Longitude       *float64               `json:"longitude"        binding:"omitempty,longitude"`
	Status          string                 `json:"status"           binding:"omitempty,machine_status"`
	QRCode          *string                `json:"qr_code"          binding:"omitempty,max=100"`
	Model3DURL      *string                `json:"model_3d_url"     binding:"omitempty,url"`
	Specifications  *MachineSpecifications `json:"specifications"`
	NextMaintenance *time.Time             `json:"next_maintenance"`
}

// UpdateMachineRequest 更新培训设备请求（不允许跨中心迁移）
type UpdateMachineRequest struct {
	Name            *string                `json:"name"             binding:"omitempty,min=2,max=150"`
	Description     *string                `json:"description"      binding:"omitempty,max=2000"`
	Type            *string                `json:"type"             binding:"omitempty,max=50"`
	ModelNumber     *string                `json:"model_number"     binding:"omitempty,max=100"`
	Manufacturer    *string                `json:"manufacturer"     binding:"omitempty,max=100"`
	Year            *int                   `json:"year"             binding:"omitempty,min=1950,max=2100"`
	Latitude        *float64               `json:"latitude"         binding:"omitempty,latitude"`
	Longitude       *float64               `json:"longitude"        binding:"omitempty,longitude"`
	Status          *string                `json:"status"           binding:"omitempty,machine_status"`
	QRCode          *string                `json:"qr_code"          binding:"omitempty,max=100"`
	Model3DURL      *string                `json:"model_3d_url"     binding:"omitempty,url"`
	Specifications  *MachineSpecifications `json:"specifications"`
	NextMaintenance *time.Time             `json:"next_maintenance"`
}

// MachineSpecifications 设备规格
type MachineSpecifications struct {
	MaxSpeed string `json:"max_speed" binding:"omitempty,max=50"`
	Power    string `json:"power"     binding:"omitempty,max=50"`
	Capacity string `json:"capacity"  binding:"omitempty,max=50"`
	Weight   string `json:"weight"    binding:"omitempty,max=50"`
}

// MachineListRequest 培训设备列表查询参数
type MachineListRequest struct {
	PaginationRequest
	CenterID string `form:"center_id" binding:"omitempty,uuid"`
	Status   string `form:"status"    binding:"omitempty,machine_status"`
	Type     string `form:"type"      binding:"omitempty,max=50"`
}

// LogMaintenanceRequest 登记设备维护
type LogMaintenanceRequest struct {
	Date            *time.Time `json:"date"`
	Type            string     `json:"type"             binding:"required,max=50"`
	PerformedBy     string     `json:"performed_by"     binding:"required,max=100"`
	Notes           string     `json:"notes"            binding:"omitempty,max=2000"`
	NextMaintenance *time.Time `json:"next_maintenance"`
	Status          *string    `json:"status"           binding:"omitempty,machine_status"`
}
