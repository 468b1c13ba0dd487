package dto

// ── 培训分配 DTO ──

// EnrollRequest 为学员分配课程
type EnrollRequest struct {
	UserID    string   `json:"user_id"    binding:"required,uuid"`
	ModuleID  string   `json:"module_id"  binding:"required,uuid"`
	CenterIDs []string `json:"center_ids" binding:"omitempty,dive,uuid"`
}

// AssignmentListRequest 培训分配列表查询参数
type AssignmentListRequest struct {
	PaginationRequest
	UserID   string `form:"user_id"   binding:"omitempty,uuid"`
	ModuleID string `form:"module_id" binding:"omitempty,uuid"`
	Status   string `form:"status"    binding:"omitempty,oneof=active completed expired cancelled"`
}

// CenterAccessRequest 授予中心访问权限
type CenterAccessRequest struct {
	CenterID string `json:"center_id" binding:"required,uuid"`
}

// AssignmentResponse 培训分配响应
type AssignmentResponse struct {
	ID                 string   `json:"id"`
	UserID             string   `json:"user_id"`
	ModuleID           string   `json:"module_id"`
	ModuleName         string   `json:"module_name,omitempty"`
	TotalHoursRequired float64  `json:"total_hours_required"`
	AssignedDate       string   `json:"assigned_date"`
	ExpiryDate         string   `json:"expiry_date"`
	Status             string   `json:"status"`
	AssignedBy         *string  `json:"assigned_by,omitempty"`
	CompletedAt        *string  `json:"completed_at,omitempty"`
	CenterIDs          []string `json:"center_ids"`
}

// CenterAccessResponse 中心访问权限
type CenterAccessResponse struct {
	AccessID   string `json:"access_id"`
	CenterID   string `json:"center_id"`
	CenterName string `json:"center_name,omitempty"`
	GrantedAt  string `json:"granted_at"`
}
