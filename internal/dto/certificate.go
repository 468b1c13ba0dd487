package dto

// ── 证书 DTO ──

// IssueCertificateRequest 颁发证书请求
type IssueCertificateRequest struct {
	AssignmentID   string  `json:"assignment_id"   binding:"required,uuid"`
	CertificateURL *string `json:"certificate_url" binding:"omitempty,url"`
}

// CertificateResponse 证书响应
type CertificateResponse struct {
	ID                string  `json:"id"`
	AssignmentID      string  `json:"assignment_id"`
	UserID            string  `json:"user_id"`
	UserName          string  `json:"user_name,omitempty"`
	ModuleName        string  `json:"module_name,omitempty"`
	CertificateNumber string  `json:"certificate_number"`
	CertificateURL    *string `json:"certificate_url,omitempty"`
	IssuedDate        string  `json:"issued_date"`
	ExpiryDate        *string `json:"expiry_date,omitempty"`
	VerificationCode  string  `json:"verification_code"`
}

// VerifyCertificateResponse 公开验证结果
type VerifyCertificateResponse struct {
	Valid       bool                `json:"valid"`
	Expired     bool                `json:"expired"`
	Certificate CertificateResponse `json:"certificate"`
}
