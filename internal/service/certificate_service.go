package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/config"
	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
)

// ── 证书业务错误 ──

var (
	ErrCertificateNotFound  = pkgerrors.New(pkgerrors.KindNotFound, "证书不存在")
	ErrCertificateExists    = pkgerrors.New(pkgerrors.KindConflict, "该分配已颁发证书")
	ErrAssignmentIncomplete = pkgerrors.New(pkgerrors.KindInvalidState, "培训分配尚未完成，不能颁发证书")
)

const (
	certNumberAlphabet = "0123456789ABCDEF"
	verifyCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	verifyCodeLength   = 12
	maxIssueAttempts   = 3
)

// CertificateService 证书业务接口
type CertificateService interface {
	Issue(ctx context.Context, req *dto.IssueCertificateRequest) (*dto.CertificateResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CertificateResponse, error)
	ListByUser(ctx context.Context, userID string) ([]dto.CertificateResponse, error)
	// Verify 按验证码公开查询
	Verify(ctx context.Context, code string) (*dto.VerifyCertificateResponse, error)
}

type certificateService struct {
	repo   *repository.Repository
	cfg    *config.TrainingConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewCertificateService 创建 CertificateService 实例
func NewCertificateService(repo *repository.Repository, cfg *config.TrainingConfig, logger *zap.Logger) CertificateService {
	return &certificateService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ────────────────────── Issue ──────────────────────

func (s *certificateService) Issue(ctx context.Context, req *dto.IssueCertificateRequest) (*dto.CertificateResponse, error) {
	a, err := s.repo.Assignment.GetByID(ctx, req.AssignmentID)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}
	if a.Status != model.AssignmentStatusCompleted {
		return nil, ErrAssignmentIncomplete
	}
	if _, err := s.repo.Certificate.GetByAssignment(ctx, a.AssignmentID); err == nil {
		return nil, ErrCertificateExists
	} else if err = notFoundOr(err, nil); err != nil {
		return nil, err
	}

	now := s.now()
	cert := &model.Certificate{
		AssignmentID:   a.AssignmentID,
		UserID:         a.UserID,
		CertificateURL: req.CertificateURL,
		IssuedDate:     now,
	}
	if s.cfg.CertificateValidityMonths > 0 {
		expiry := now.AddDate(0, s.cfg.CertificateValidityMonths, 0)
		cert.ExpiryDate = &expiry
	}

	// 编号或验证码碰撞时重新生成
	for attempt := 1; ; attempt++ {
		if cert.CertificateNumber, err = certificateNumber(now); err != nil {
			return nil, err
		}
		if cert.VerificationCode, err = randomString(verifyCodeAlphabet, verifyCodeLength); err != nil {
			return nil, err
		}

		err = s.repo.Certificate.Create(ctx, cert)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			s.logger.Error("颁发证书失败", zap.String("assignment_id", a.AssignmentID), zap.Error(err))
			return nil, pkgerrors.Dependency(err)
		}
		// assignment_id 冲突说明并发颁发已成功
		if _, lookupErr := s.repo.Certificate.GetByAssignment(ctx, a.AssignmentID); lookupErr == nil {
			return nil, ErrCertificateExists
		}
		if attempt >= maxIssueAttempts {
			return nil, pkgerrors.Dependency(err)
		}
	}

	cert.Assignment = a
	s.logger.Info("颁发证书",
		zap.String("certificate_id", cert.CertificateID),
		zap.String("number", cert.CertificateNumber),
		zap.String("user_id", cert.UserID),
	)
	return toCertificateResponse(cert), nil
}

// certificateNumber CERT-<年份>-<8 位大写十六进制>
func certificateNumber(now time.Time) (string, error) {
	suffix, err := randomString(certNumberAlphabet, 8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CERT-%d-%s", now.Year(), suffix), nil
}

// ────────────────────── Query ──────────────────────

func (s *certificateService) GetByID(ctx context.Context, id string) (*dto.CertificateResponse, error) {
	cert, err := s.repo.Certificate.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrCertificateNotFound)
	}
	return toCertificateResponse(cert), nil
}

func (s *certificateService) ListByUser(ctx context.Context, userID string) ([]dto.CertificateResponse, error) {
	list, err := s.repo.Certificate.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户证书失败", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	result := make([]dto.CertificateResponse, 0, len(list))
	for i := range list {
		result = append(result, *toCertificateResponse(&list[i]))
	}
	return result, nil
}

func (s *certificateService) Verify(ctx context.Context, code string) (*dto.VerifyCertificateResponse, error) {
	cert, err := s.repo.Certificate.GetByVerificationCode(ctx, code)
	if err != nil {
		return nil, notFoundOr(err, ErrCertificateNotFound)
	}
	expired := cert.ExpiryDate != nil && s.now().After(*cert.ExpiryDate)
	return &dto.VerifyCertificateResponse{
		Valid:       !expired,
		Expired:     expired,
		Certificate: *toCertificateResponse(cert),
	}, nil
}
