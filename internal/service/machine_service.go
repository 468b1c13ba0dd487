package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
)

// ── 培训设备业务错误 ──

var (
	ErrMachineNotFound = pkgerrors.New(pkgerrors.KindNotFound, "培训设备不存在")
	ErrQRCodeExists    = pkgerrors.New(pkgerrors.KindConflict, "设备二维码已被占用")
)

// MachineService 培训设备业务接口
type MachineService interface {
	Create(ctx context.Context, req *dto.CreateMachineRequest) (*model.TrainingMachine, error)
	GetByID(ctx context.Context, id string) (*model.TrainingMachine, error)
	List(ctx context.Context, req *dto.MachineListRequest) ([]model.TrainingMachine, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateMachineRequest) (*model.TrainingMachine, error)
	Delete(ctx context.Context, id string) error
	// LogMaintenance 追加维护记录并更新上次/下次维护时间
	LogMaintenance(ctx context.Context, id string, req *dto.LogMaintenanceRequest) (*model.TrainingMachine, error)
}

type machineService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewMachineService 创建 MachineService 实例
func NewMachineService(repo *repository.Repository, logger *zap.Logger) MachineService {
	return &machineService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func toSpecifications(spec *dto.MachineSpecifications) model.MachineSpecifications {
	if spec == nil {
		return model.MachineSpecifications{}
	}
	return model.MachineSpecifications{
		MaxSpeed: spec.MaxSpeed,
		Power:    spec.Power,
		Capacity: spec.Capacity,
		Weight:   spec.Weight,
	}
}

// ────────────────────── Create ──────────────────────

func (s *machineService) Create(ctx context.Context, req *dto.CreateMachineRequest) (*model.TrainingMachine, error) {
	if _, err := s.repo.Center.GetByID(ctx, req.CenterID); err != nil {
		return nil, notFoundOr(err, ErrCenterNotFound)
	}

	status := req.Status
	if status == "" {
		status = model.MachineStatusActive
	}
	machine := &model.TrainingMachine{
		Name:               strings.TrimSpace(req.Name),
		Description:        req.Description,
		Type:               req.Type,
		ModelNumber:        req.ModelNumber,
		Manufacturer:       req.Manufacturer,
		Year:               req.Year,
		CenterID:           req.CenterID,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		Status:             status,
		QRCode:             req.QRCode,
		Model3DURL:         req.Model3DURL,
		Specifications:     datatypes.NewJSONType(toSpecifications(req.Specifications)),
		MaintenanceHistory: datatypes.NewJSONSlice([]model.MaintenanceRecord{}),
		NextMaintenance:    req.NextMaintenance,
	}

	if err := s.repo.Machine.Create(ctx, machine); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrQRCodeExists
		}
		s.logger.Error("创建培训设备失败", zap.String("center_id", req.CenterID), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	return machine, nil
}

// ────────────────────── Query ──────────────────────

func (s *machineService) GetByID(ctx context.Context, id string) (*model.TrainingMachine, error) {
	machine, err := s.repo.Machine.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrMachineNotFound)
	}
	return machine, nil
}

func (s *machineService) List(ctx context.Context, req *dto.MachineListRequest) ([]model.TrainingMachine, int64, error) {
	list, total, err := s.repo.Machine.List(ctx, repository.MachineFilter{
		CenterID: req.CenterID,
		Status:   req.Status,
		Type:     req.Type,
		Page:     toPage(req.PaginationRequest),
	})
	if err != nil {
		s.logger.Error("列出培训设备失败", zap.Error(err))
		return nil, 0, pkgerrors.Dependency(err)
	}
	return list, total, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *machineService) Update(ctx context.Context, id string, req *dto.UpdateMachineRequest) (*model.TrainingMachine, error) {
	machine, err := s.repo.Machine.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrMachineNotFound)
	}

	if req.Name != nil {
		machine.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		machine.Description = *req.Description
	}
	if req.Type != nil {
		machine.Type = *req.Type
	}
	if req.ModelNumber != nil {
		machine.ModelNumber = *req.ModelNumber
	}
	if req.Manufacturer != nil {
		machine.Manufacturer = *req.Manufacturer
	}
	if req.Year != nil {
		machine.Year = req.Year
	}
	if req.Latitude != nil {
		machine.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		machine.Longitude = req.Longitude
	}
	if req.Status != nil {
		machine.Status = *req.Status
	}
	if req.QRCode != nil {
		machine.QRCode = req.QRCode
	}
	if req.Model3DURL != nil {
		machine.Model3DURL = req.Model3DURL
	}
	if req.Specifications != nil {
		machine.Specifications = datatypes.NewJSONType(toSpecifications(req.Specifications))
	}
	if req.NextMaintenance != nil {
		machine.NextMaintenance = req.NextMaintenance
	}

	if err := s.repo.Machine.Update(ctx, machine); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrQRCodeExists
		}
		s.logger.Error("更新培训设备失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	return machine, nil
}

func (s *machineService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Machine.GetByID(ctx, id); err != nil {
		return notFoundOr(err, ErrMachineNotFound)
	}
	if err := s.repo.Machine.Delete(ctx, id); err != nil {
		s.logger.Error("删除培训设备失败", zap.String("id", id), zap.Error(err))
		return pkgerrors.Dependency(err)
	}
	return nil
}

// ────────────────────── LogMaintenance ──────────────────────

func (s *machineService) LogMaintenance(ctx context.Context, id string, req *dto.LogMaintenanceRequest) (*model.TrainingMachine, error) {
	machine, err := s.repo.Machine.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrMachineNotFound)
	}

	date := s.now()
	if req.Date != nil {
		date = req.Date.UTC()
	}
	if req.NextMaintenance != nil && req.NextMaintenance.Before(date) {
		return nil, pkgerrors.Validation("下次维护时间不能早于本次维护时间", "next_maintenance")
	}

	machine.MaintenanceHistory = append(machine.MaintenanceHistory, model.MaintenanceRecord{
		Date:        date,
		Type:        req.Type,
		PerformedBy: req.PerformedBy,
		Notes:       req.Notes,
	})
	machine.LastMaintenance = &date
	if req.NextMaintenance != nil {
		machine.NextMaintenance = req.NextMaintenance
	}
	if req.Status != nil {
		machine.Status = *req.Status
	}

	if err := s.repo.Machine.Update(ctx, machine); err != nil {
		s.logger.Error("登记设备维护失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}

	s.logger.Info("登记设备维护", zap.String("machine_id", id), zap.String("type", req.Type))
	return machine, nil
}
