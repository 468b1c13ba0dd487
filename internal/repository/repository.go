package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate 唯一约束冲突（含部分唯一索引）
var ErrDuplicate = errors.New("唯一约束冲突")

// pgUniqueViolation PostgreSQL unique_violation 错误码
const pgUniqueViolation = "23505"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User             UserRepository
	Center           CenterRepository
	Machine          MachineRepository
	Course           CourseRepository
	Assignment       AssignmentRepository
	Session          SessionRepository
	Certificate      CertificateRepository
	Alert            AlertRepository
	MonitoredMachine MonitoredMachineRepository
	Broadcast        BroadcastRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:               db,
		User:             NewUserRepo(db),
		Center:           NewCenterRepo(db),
		Machine:          NewMachineRepo(db),
		Course:           NewCourseRepo(db),
		Assignment:       NewAssignmentRepo(db),
		Session:          NewSessionRepo(db),
		Certificate:      NewCertificateRepo(db),
		Alert:            NewAlertRepo(db),
		MonitoredMachine: NewMonitoredMachineRepo(db),
		Broadcast:        NewBroadcastRepo(db),
	}
}

// Transaction 在同一数据库事务中执行 fn，fn 返回错误时整体回滚
// 未绑定数据库连接（单元测试中手工组装的聚合）时直接执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// translateError 将唯一约束冲突统一转换为 ErrDuplicate
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// Page 分页参数
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	return db
}
