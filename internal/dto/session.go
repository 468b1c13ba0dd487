package dto

import "github.com/anshshr/broadcast-notification-and-alert/internal/training"

// ── 签到签退 DTO ──

// CheckInRequest 签到请求
type CheckInRequest struct {
	UserID       string `json:"user_id"       binding:"required,uuid"`
	AssignmentID string `json:"assignment_id" binding:"required,uuid"`
	MachineID    string `json:"machine_id"    binding:"required,uuid"`
	CenterID     string `json:"center_id"     binding:"required,uuid"`
	Notes        string `json:"notes"         binding:"omitempty,max=2000"`
}

// CheckOutRequest 签退请求
type CheckOutRequest struct {
	SessionID string `json:"session_id" binding:"required,uuid"`
	Notes     string `json:"notes"      binding:"omitempty,max=2000"`
}

// ReviewSessionRequest 审核训练记录
type ReviewSessionRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
	Rating *int   `json:"rating" binding:"omitempty,min=1,max=5"`
}

// SessionListRequest 训练记录列表查询参数
type SessionListRequest struct {
	PaginationRequest
	UserID       string `form:"user_id"       binding:"omitempty,uuid"`
	AssignmentID string `form:"assignment_id" binding:"omitempty,uuid"`
	CenterID     string `form:"center_id"     binding:"omitempty,uuid"`
	Status       string `form:"status"        binding:"omitempty,session_status"`
}

// SessionResponse 训练记录摘要
type SessionResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	AssignmentID   string  `json:"assignment_id"`
	CenterID       string  `json:"center_id"`
	CenterName     string  `json:"center_name,omitempty"`
	MachineID      string  `json:"machine_id"`
	MachineName    string  `json:"machine_name,omitempty"`
	CheckInTime    string  `json:"check_in_time"`
	CheckOutTime   *string `json:"check_out_time"`
	HoursCompleted float64 `json:"hours_completed"`
	Status         string  `json:"status"`
	Notes          string  `json:"notes,omitempty"`
	ClockSkew      bool    `json:"clock_skew,omitempty"`
	ApprovedBy     *string `json:"approved_by,omitempty"`
	ApprovedAt     *string `json:"approved_at,omitempty"`
	Rating         *int    `json:"rating,omitempty"`
}

// CheckOutResponse 签退结果
type CheckOutResponse struct {
	Session             SessionResponse          `json:"session"`
	CourseProgress      training.ProgressSummary `json:"course_progress"`
	AssignmentCompleted bool                     `json:"assignment_completed"`
}

// AssignmentProgressResponse 分配进度与逐条记录
type AssignmentProgressResponse struct {
	Summary  training.ProgressSummary `json:"summary"`
	Sessions []SessionResponse        `json:"sessions"`
}

// DashboardResponse 学员看板
type DashboardResponse struct {
	UserID             string                  `json:"user_id"`
	Stats              training.DashboardStats `json:"stats"`
	ActiveSession      *SessionResponse        `json:"active_session"`
	CertificatesEarned int                     `json:"certificates_earned"`
}
