package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

// AlertFilter 告警过滤条件
type AlertFilter struct {
	MaintenanceStatus string
	AlertType         string
	Page
}

// AlertRepository 设备告警数据访问接口
type AlertRepository interface {
	Create(ctx context.Context, alert *model.MachineAlert) error
	GetByID(ctx context.Context, id string) (*model.MachineAlert, error)
	List(ctx context.Context, filter AlertFilter) ([]model.MachineAlert, int64, error)
	Update(ctx context.Context, alert *model.MachineAlert) error
}

type alertRepo struct {
	db *gorm.DB
}

// NewAlertRepo 创建 AlertRepository 实例
func NewAlertRepo(db *gorm.DB) AlertRepository {
	return &alertRepo{db: db}
}

func (r *alertRepo) Create(ctx context.Context, alert *model.MachineAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepo) GetByID(ctx context.Context, id string) (*model.MachineAlert, error) {
	var alert model.MachineAlert
	err := r.db.WithContext(ctx).
		Where("alert_id = ?", id).
		First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepo) List(ctx context.Context, filter AlertFilter) ([]model.MachineAlert, int64, error) {
	var list []model.MachineAlert
	var total int64

	db := r.db.WithContext(ctx).Model(&model.MachineAlert{})
	if filter.MaintenanceStatus != "" {
		db = db.Where("machine_maintenance_status = ?", filter.MaintenanceStatus)
	}
	if filter.AlertType != "" {
		db = db.Where("alert_type = ?", filter.AlertType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := filter.Page.apply(db).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *alertRepo) Update(ctx context.Context, alert *model.MachineAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// ────── 监控运行记录 ──────

// MonitoredMachineRepository 监控设备运行记录数据访问接口
type MonitoredMachineRepository interface {
	Create(ctx context.Context, m *model.MonitoredMachine) error
	List(ctx context.Context, page Page) ([]model.MonitoredMachine, int64, error)
}

type monitoredMachineRepo struct {
	db *gorm.DB
}

// NewMonitoredMachineRepo 创建 MonitoredMachineRepository 实例
func NewMonitoredMachineRepo(db *gorm.DB) MonitoredMachineRepository {
	return &monitoredMachineRepo{db: db}
}

func (r *monitoredMachineRepo) Create(ctx context.Context, m *model.MonitoredMachine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *monitoredMachineRepo) List(ctx context.Context, page Page) ([]model.MonitoredMachine, int64, error) {
	var list []model.MonitoredMachine
	var total int64

	db := r.db.WithContext(ctx).Model(&model.MonitoredMachine{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := page.apply(db).Order("start_time DESC").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
