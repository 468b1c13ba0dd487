package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
)

// ── 设备监控业务错误 ──

var (
	ErrAlertNotFound    = pkgerrors.New(pkgerrors.KindNotFound, "告警不存在")
	ErrInvalidTimeRange = pkgerrors.Validation("结束时间不能早于开始时间", "end_time")
)

// MonitoringService 设备告警与运行记录业务接口
type MonitoringService interface {
	CreateAlert(ctx context.Context, req *dto.CreateAlertRequest) (*model.MachineAlert, error)
	ListAlerts(ctx context.Context, req *dto.AlertListRequest) ([]model.MachineAlert, int64, error)
	UpdateAlertStatus(ctx context.Context, id string, req *dto.UpdateAlertStatusRequest) (*model.MachineAlert, error)

	CreateMonitoredMachine(ctx context.Context, req *dto.CreateMonitoredMachineRequest) (*model.MonitoredMachine, error)
	ListMonitoredMachines(ctx context.Context, req *dto.PaginationRequest) ([]model.MonitoredMachine, int64, error)
}

type monitoringService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMonitoringService 创建 MonitoringService 实例
func NewMonitoringService(repo *repository.Repository, logger *zap.Logger) MonitoringService {
	return &monitoringService{repo: repo, logger: logger}
}

// ────────────────────── Alerts ──────────────────────

func (s *monitoringService) CreateAlert(ctx context.Context, req *dto.CreateAlertRequest) (*model.MachineAlert, error) {
	alert := &model.MachineAlert{
		AlertType:                defaultString(req.AlertType, "Normal"),
		MachineName:              req.MachineName,
		MachineDefectURL:         req.MachineDefectURL,
		MachineDesc:              req.MachineDesc,
		MachineLocation:          req.MachineLocation,
		MachineUnderMaintenance:  req.MachineUnderMaintenance,
		MachineMaintenanceStatus: defaultString(req.MachineMaintenanceStatus, model.MaintenanceStatusPending),
	}
	if err := s.repo.Alert.Create(ctx, alert); err != nil {
		s.logger.Error("创建告警失败", zap.String("machine", req.MachineName), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}

	s.logger.Info("设备告警",
		zap.String("alert_id", alert.AlertID),
		zap.String("machine", alert.MachineName),
		zap.String("type", alert.AlertType),
	)
	return alert, nil
}

func (s *monitoringService) ListAlerts(ctx context.Context, req *dto.AlertListRequest) ([]model.MachineAlert, int64, error) {
	list, total, err := s.repo.Alert.List(ctx, repository.AlertFilter{
		MaintenanceStatus: req.Status,
		AlertType:         req.AlertType,
		Page:              toPage(req.PaginationRequest),
	})
	if err != nil {
		s.logger.Error("列出告警失败", zap.Error(err))
		return nil, 0, pkgerrors.Dependency(err)
	}
	return list, total, nil
}

func (s *monitoringService) UpdateAlertStatus(ctx context.Context, id string, req *dto.UpdateAlertStatusRequest) (*model.MachineAlert, error) {
	alert, err := s.repo.Alert.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrAlertNotFound)
	}

	alert.MachineMaintenanceStatus = req.MachineMaintenanceStatus
	switch {
	case req.MachineUnderMaintenance != nil:
		alert.MachineUnderMaintenance = *req.MachineUnderMaintenance
	case req.MachineMaintenanceStatus == model.MaintenanceStatusResolved:
		alert.MachineUnderMaintenance = false
	case req.MachineMaintenanceStatus == model.MaintenanceStatusProgress:
		alert.MachineUnderMaintenance = true
	}

	if err := s.repo.Alert.Update(ctx, alert); err != nil {
		s.logger.Error("更新告警状态失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	return alert, nil
}

// ────────────────────── Monitored Machines ──────────────────────

func (s *monitoringService) CreateMonitoredMachine(ctx context.Context, req *dto.CreateMonitoredMachineRequest) (*model.MonitoredMachine, error) {
	if req.EndTime.Before(*req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	m := &model.MonitoredMachine{
		Username:                 defaultString(req.Username, "guest"),
		AlertType:                defaultString(req.AlertType, "Normal"),
		MachineName:              req.MachineName,
		MachineDefectURL:         req.MachineDefectURL,
		MachineDesc:              req.MachineDesc,
		MachineLocation:          req.MachineLocation,
		MachineUnderMaintenance:  req.MachineUnderMaintenance,
		MachineMaintenanceStatus: defaultString(req.MachineMaintenanceStatus, model.MaintenanceStatusPending),
		StartTime:                req.StartTime.UTC(),
		EndTime:                  req.EndTime.UTC(),
	}
	if err := s.repo.MonitoredMachine.Create(ctx, m); err != nil {
		s.logger.Error("登记监控设备失败", zap.String("machine", req.MachineName), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	return m, nil
}

func (s *monitoringService) ListMonitoredMachines(ctx context.Context, req *dto.PaginationRequest) ([]model.MonitoredMachine, int64, error) {
	list, total, err := s.repo.MonitoredMachine.List(ctx, toPage(*req))
	if err != nil {
		s.logger.Error("列出监控设备失败", zap.Error(err))
		return nil, 0, pkgerrors.Dependency(err)
	}
	return list, total, nil
}
