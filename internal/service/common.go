package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
)

// Locker 分布式锁，Redis 不可用时传 nil
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// TokenBlacklist Refresh Token 吊销名单，Redis 不可用时传 nil
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// ErrInvalidInput 通用参数错误
var ErrInvalidInput = pkgerrors.New(pkgerrors.KindValidation, "参数校验失败")

// notFoundOr 将 gorm.ErrRecordNotFound 映射为业务错误，其余错误视为依赖故障
func notFoundOr(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return pkgerrors.Dependency(err)
}

func toPage(p dto.PaginationRequest) repository.Page {
	return repository.Page{Offset: p.GetOffset(), Limit: p.GetPageSize()}
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.UserID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Role:      user.Role,
		Status:    user.Status,
		Verified:  user.Verified,
		PhotoURL:  user.PhotoURL,
		HasDevice: user.FCMToken != nil && *user.FCMToken != "",
		CreatedAt: dto.FormatTime(user.CreatedAt),
	}
}

func toSessionResponse(s *model.TrainingSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:             s.SessionID,
		UserID:         s.UserID,
		AssignmentID:   s.AssignmentID,
		CenterID:       s.CenterID,
		MachineID:      s.MachineID,
		CheckInTime:    dto.FormatTime(s.CheckInTime),
		CheckOutTime:   dto.FormatTimePtr(s.CheckOutTime),
		HoursCompleted: s.HoursCompleted,
		Status:         s.Status,
		Notes:          s.Notes,
		ClockSkew:      s.ClockSkew,
		ApprovedBy:     s.ApprovedBy,
		ApprovedAt:     dto.FormatTimePtr(s.ApprovedAt),
		Rating:         s.Rating,
	}
	if s.Center != nil {
		resp.CenterName = s.Center.Name
	}
	if s.Machine != nil {
		resp.MachineName = s.Machine.Name
	}
	return resp
}

func toSessionResponses(list []model.TrainingSession) []dto.SessionResponse {
	result := make([]dto.SessionResponse, 0, len(list))
	for i := range list {
		result = append(result, toSessionResponse(&list[i]))
	}
	return result
}

func toAssignmentResponse(a *model.UserTrainingAssignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:           a.AssignmentID,
		UserID:       a.UserID,
		ModuleID:     a.ModuleID,
		AssignedDate: dto.FormatTime(a.AssignedDate),
		ExpiryDate:   dto.FormatTime(a.ExpiryDate),
		Status:       a.Status,
		AssignedBy:   a.AssignedBy,
		CompletedAt:  dto.FormatTimePtr(a.CompletedAt),
		CenterIDs:    make([]string, 0, len(a.CenterAccess)),
	}
	if a.Module != nil {
		resp.ModuleName = a.Module.ModuleName
		resp.TotalHoursRequired = a.Module.TotalHoursRequired
	}
	for _, access := range a.CenterAccess {
		resp.CenterIDs = append(resp.CenterIDs, access.CenterID)
	}
	return resp
}

func toCertificateResponse(c *model.Certificate) *dto.CertificateResponse {
	resp := &dto.CertificateResponse{
		ID:                c.CertificateID,
		AssignmentID:      c.AssignmentID,
		UserID:            c.UserID,
		CertificateNumber: c.CertificateNumber,
		CertificateURL:    c.CertificateURL,
		IssuedDate:        dto.FormatTime(c.IssuedDate),
		ExpiryDate:        dto.FormatTimePtr(c.ExpiryDate),
		VerificationCode:  c.VerificationCode,
	}
	if c.User != nil {
		resp.UserName = c.User.FullName
	}
	if c.Assignment != nil && c.Assignment.Module != nil {
		resp.ModuleName = c.Assignment.Module.ModuleName
	}
	return resp
}

// randomString 使用 crypto/rand 从字母表中生成随机字符串
func randomString(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = alphabet[n.Int64()]
	}
	return string(result), nil
}
