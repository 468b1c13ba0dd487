package model

import "time"

// Certificate 结业证书表，对应 certificates（每个分配最多一张）
type Certificate struct {
	CertificateID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"certificate_id"`
	AssignmentID      string     `gorm:"type:uuid;not null"                             json:"assignment_id"`
	UserID            string     `gorm:"type:uuid;not null"                             json:"user_id"`
	CertificateNumber string     `gorm:"type:varchar(40);not null"                      json:"certificate_number"`
	CertificateURL    *string    `gorm:"type:text"                                      json:"certificate_url,omitempty"`
	IssuedDate        time.Time  `gorm:"not null"                                       json:"issued_date"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	VerificationCode  string     `gorm:"type:varchar(20)"                               json:"verification_code"`
	BaseModel

	// 关联
	User       *User                   `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	Assignment *UserTrainingAssignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
}

// TableName 指定表名
func (Certificate) TableName() string { return "certificates" }
