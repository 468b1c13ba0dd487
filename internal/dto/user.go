package dto

import "strings"

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Email    string  `json:"email"     binding:"required,email"`
	Password string  `json:"password"  binding:"required,min=8,max=64"`
	FullName string  `json:"full_name" binding:"required,min=2,max=100"`
	Phone    string  `json:"phone"     binding:"required,min=6,max=20"`
	Role     string  `json:"role"      binding:"omitempty,oneof=trainee trainer admin"`
	PhotoURL *string `json:"photo_url" binding:"omitempty,url"`
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone"     binding:"omitempty,min=6,max=20"`
	Role     *string `json:"role"      binding:"omitempty,oneof=trainee trainer admin"`
	Status   *string `json:"status"    binding:"omitempty,oneof=active inactive suspended"`
	PhotoURL *string `json:"photo_url" binding:"omitempty,url"`
	Verified *bool   `json:"verified"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=trainee trainer admin"`
	Status  string `form:"status"  binding:"omitempty,oneof=active inactive suspended"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// UpsertDeviceRequest 登记设备推送 Token（兼容 /upsert-user）
// 新用户必须提供姓名（full_name 或 firstname）与 password
// 旧客户端提交的 FCM_TOKEN 按 JSON 键大小写不敏感匹配到 fcm_token
type UpsertDeviceRequest struct {
	Email     string `json:"email"     binding:"required,email"`
	FCMToken  string `json:"fcm_token"`
	FullName  string `json:"full_name" binding:"omitempty,min=2,max=100"`
	Firstname string `json:"firstname" binding:"omitempty,max=50"`
	Lastname  string `json:"lastname"  binding:"omitempty,max=50"`
	Password  string `json:"password"  binding:"omitempty,min=8,max=64"`
	Phone     string `json:"phone"     binding:"omitempty,max=20"`
	Role      string `json:"role"      binding:"omitempty,oneof=trainee trainer admin"`
	Verified  *bool  `json:"verified"`
}

// DisplayName full_name 为空时由 firstname 与 lastname 拼接
func (r *UpsertDeviceRequest) DisplayName() string {
	if name := strings.TrimSpace(r.FullName); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(r.Firstname) + " " + strings.TrimSpace(r.Lastname))
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Phone     string  `json:"phone"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
	Verified  bool    `json:"verified"`
	PhotoURL  *string `json:"photo_url,omitempty"`
	HasDevice bool    `json:"has_device"`
	CreatedAt string  `json:"created_at"`
}

// UpsertDeviceResponse 设备登记结果
type UpsertDeviceResponse struct {
	Exists bool         `json:"exists"`
	User   UserResponse `json:"user"`
}

// ImportUsersResponse 批量导入结果
type ImportUsersResponse struct {
	Total       int                `json:"total"`
	Created     int                `json:"created"`
	Failed      int                `json:"failed"`
	Errors      []ImportRowError   `json:"errors,omitempty"`
	Credentials []ImportCredential `json:"credentials,omitempty"`
}

// ImportCredential 导入成功用户的临时密码（仅返回一次）
type ImportCredential struct {
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}

// ImportRowError 导入失败的行
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
