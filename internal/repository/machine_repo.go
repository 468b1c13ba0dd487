package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

// MachineFilter 培训设备过滤条件
type MachineFilter struct {
	CenterID string
	Status   string
	Type     string
	Page
}

// MachineRepository 培训设备数据访问接口
type MachineRepository interface {
	Create(ctx context.Context, machine *model.TrainingMachine) error
	GetByID(ctx context.Context, id string) (*model.TrainingMachine, error)
	List(ctx context.Context, filter MachineFilter) ([]model.TrainingMachine, int64, error)
	Update(ctx context.Context, machine *model.TrainingMachine) error
	Delete(ctx context.Context, id string) error
}

type machineRepo struct {
	db *gorm.DB
}

// NewMachineRepo 创建 MachineRepository 实例
func NewMachineRepo(db *gorm.DB) MachineRepository {
	return &machineRepo{db: db}
}

func (r *machineRepo) Create(ctx context.Context, machine *model.TrainingMachine) error {
	return translateError(r.db.WithContext(ctx).Create(machine).Error)
}

func (r *machineRepo) GetByID(ctx context.Context, id string) (*model.TrainingMachine, error) {
	var machine model.TrainingMachine
	err := r.db.WithContext(ctx).
		Where("machine_id = ?", id).
		First(&machine).Error
	if err != nil {
		return nil, err
	}
	return &machine, nil
}

func (r *machineRepo) List(ctx context.Context, filter MachineFilter) ([]model.TrainingMachine, int64, error) {
	var machines []model.TrainingMachine
	var total int64

	db := r.db.WithContext(ctx).Model(&model.TrainingMachine{})
	if filter.CenterID != "" {
		db = db.Where("center_id = ?", filter.CenterID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := filter.Page.apply(db).Order("name ASC").Find(&machines).Error; err != nil {
		return nil, 0, err
	}
	return machines, total, nil
}

func (r *machineRepo) Update(ctx context.Context, machine *model.TrainingMachine) error {
	return translateError(r.db.WithContext(ctx).Save(machine).Error)
}

func (r *machineRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("machine_id = ?", id).
		Delete(&model.TrainingMachine{}).Error
}
