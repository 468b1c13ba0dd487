package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

// CertificateRepository 证书数据访问接口
type CertificateRepository interface {
	Create(ctx context.Context, cert *model.Certificate) error
	GetByID(ctx context.Context, id string) (*model.Certificate, error)
	GetByAssignment(ctx context.Context, assignmentID string) (*model.Certificate, error)
	GetByVerificationCode(ctx context.Context, code string) (*model.Certificate, error)
	ListByUser(ctx context.Context, userID string) ([]model.Certificate, error)
}

type certificateRepo struct {
	db *gorm.DB
}

// NewCertificateRepo 创建 CertificateRepository 实例
func NewCertificateRepo(db *gorm.DB) CertificateRepository {
	return &certificateRepo{db: db}
}

func (r *certificateRepo) Create(ctx context.Context, cert *model.Certificate) error {
	return translateError(r.db.WithContext(ctx).Create(cert).Error)
}

func (r *certificateRepo) GetByID(ctx context.Context, id string) (*model.Certificate, error) {
	return r.first(ctx, "certificate_id = ?", id)
}

func (r *certificateRepo) GetByAssignment(ctx context.Context, assignmentID string) (*model.Certificate, error) {
	return r.first(ctx, "assignment_id = ?", assignmentID)
}

func (r *certificateRepo) GetByVerificationCode(ctx context.Context, code string) (*model.Certificate, error) {
	return r.first(ctx, "verification_code = ?", code)
}

func (r *certificateRepo) first(ctx context.Context, query string, arg interface{}) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Assignment.Module").
		Where(query, arg).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepo) ListByUser(ctx context.Context, userID string) ([]model.Certificate, error) {
	var list []model.Certificate
	err := r.db.WithContext(ctx).
		Preload("Assignment.Module").
		Where("user_id = ?", userID).
		Order("issued_date DESC").
		Find(&list).Error
	return list, err
}
