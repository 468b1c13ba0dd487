package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
)

// ── 培训中心业务错误 ──

var ErrCenterNotFound = pkgerrors.New(pkgerrors.KindNotFound, "培训中心不存在")

// CenterService 培训中心业务接口
type CenterService interface {
	Create(ctx context.Context, req *dto.CreateCenterRequest) (*model.TrainingCenter, error)
	GetByID(ctx context.Context, id string) (*model.TrainingCenter, error)
	List(ctx context.Context, req *dto.CenterListRequest) ([]model.TrainingCenter, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateCenterRequest) (*model.TrainingCenter, error)
	Delete(ctx context.Context, id string) error
}

type centerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCenterService 创建 CenterService 实例
func NewCenterService(repo *repository.Repository, logger *zap.Logger) CenterService {
	return &centerService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *centerService) Create(ctx context.Context, req *dto.CreateCenterRequest) (*model.TrainingCenter, error) {
	center := &model.TrainingCenter{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		Pincode:         req.Pincode,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ContactNumber:   req.ContactNumber,
		ContactEmail:    normalizeEmail(req.ContactEmail),
		Status:          model.StatusActive,
		Specializations: datatypes.NewJSONSlice(nonNil(req.Specializations)),
	}
	if err := s.repo.Center.Create(ctx, center); err != nil {
		s.logger.Error("创建培训中心失败", zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	return center, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// ────────────────────── Query ──────────────────────

func (s *centerService) GetByID(ctx context.Context, id string) (*model.TrainingCenter, error) {
	center, err := s.repo.Center.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrCenterNotFound)
	}

	counts, err := s.repo.Center.CountMachines(ctx, []string{id})
	if err != nil {
		s.logger.Error("统计中心设备失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	center.MachineCount = counts[id]
	return center, nil
}

func (s *centerService) List(ctx context.Context, req *dto.CenterListRequest) ([]model.TrainingCenter, int64, error) {
	centers, total, err := s.repo.Center.List(ctx, repository.CenterFilter{
		City:   req.City,
		Status: req.Status,
		Page:   toPage(req.PaginationRequest),
	})
	if err != nil {
		s.logger.Error("列出培训中心失败", zap.Error(err))
		return nil, 0, pkgerrors.Dependency(err)
	}

	ids := make([]string, 0, len(centers))
	for _, c := range centers {
		ids = append(ids, c.CenterID)
	}
	counts, err := s.repo.Center.CountMachines(ctx, ids)
	if err != nil {
		s.logger.Error("统计中心设备失败", zap.Error(err))
		return nil, 0, pkgerrors.Dependency(err)
	}
	for i := range centers {
		centers[i].MachineCount = counts[centers[i].CenterID]
	}
	return centers, total, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *centerService) Update(ctx context.Context, id string, req *dto.UpdateCenterRequest) (*model.TrainingCenter, error) {
	center, err := s.repo.Center.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrCenterNotFound)
	}

	if req.Name != nil {
		center.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		center.Description = *req.Description
	}
	if req.Address != nil {
		center.Address = *req.Address
	}
	if req.City != nil {
		center.City = *req.City
	}
	if req.State != nil {
		center.State = *req.State
	}
	if req.Pincode != nil {
		center.Pincode = *req.Pincode
	}
	if req.Latitude != nil {
		center.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		center.Longitude = req.Longitude
	}
	if req.ContactNumber != nil {
		center.ContactNumber = *req.ContactNumber
	}
	if req.ContactEmail != nil {
		center.ContactEmail = normalizeEmail(*req.ContactEmail)
	}
	if req.Status != nil {
		center.Status = *req.Status
	}
	if req.Specializations != nil {
		center.Specializations = datatypes.NewJSONSlice(nonNil(*req.Specializations))
	}

	if err := s.repo.Center.Update(ctx, center); err != nil {
		s.logger.Error("更新培训中心失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	return center, nil
}

func (s *centerService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Center.GetByID(ctx, id); err != nil {
		return notFoundOr(err, ErrCenterNotFound)
	}
	if err := s.repo.Center.Delete(ctx, id); err != nil {
		s.logger.Error("删除培训中心失败", zap.String("id", id), zap.Error(err))
		return pkgerrors.Dependency(err)
	}
	return nil
}
