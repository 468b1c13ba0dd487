package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound       = pkgerrors.New(pkgerrors.KindNotFound, "课程模块不存在")
	ErrCourseLocked         = pkgerrors.New(pkgerrors.KindConflict, "课程已被分配引用，学时要求与级别不可修改")
	ErrCourseInUse          = pkgerrors.New(pkgerrors.KindConflict, "课程已被分配引用，不可删除")
	ErrCourseCenterExists   = pkgerrors.New(pkgerrors.KindConflict, "课程已在该中心开设")
	ErrCourseCenterNotFound = pkgerrors.New(pkgerrors.KindNotFound, "课程未在该中心开设")
)

// CourseService 课程模块业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.CourseModule, error)
	GetByID(ctx context.Context, id string) (*model.CourseModule, error)
	List(ctx context.Context, req *dto.CourseListRequest) ([]model.CourseModule, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*model.CourseModule, error)
	Delete(ctx context.Context, id string) error

	AddCenter(ctx context.Context, id string, req *dto.CourseCenterRequest) (*model.CourseCenter, error)
	RemoveCenter(ctx context.Context, id, centerID string) error
	ListCenters(ctx context.Context, id string) ([]model.CourseCenter, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.CourseModule, error) {
	course := &model.CourseModule{
		ModuleName:         strings.TrimSpace(req.ModuleName),
		MachineType:        req.MachineType,
		Category:           req.Category,
		Description:        req.Description,
		TotalHoursRequired: req.TotalHoursRequired,
		Level:              defaultString(req.Level, "Beginner"),
		Prerequisites:      datatypes.NewJSONSlice(nonNil(req.Prerequisites)),
		Syllabus:           datatypes.NewJSONSlice(nonNil(req.Syllabus)),
		CertificationName:  req.CertificationName,
		Price:              req.Price,
		Currency:           defaultString(strings.ToUpper(req.Currency), "INR"),
		IconName:           req.IconName,
		Color:              defaultString(req.Color, "#3B82F6"),
		Status:             model.StatusActive,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Course.Create(ctx, course); err != nil {
			return pkgerrors.Dependency(err)
		}
		for _, centerID := range uniqueStrings(req.CenterIDs) {
			if _, err := tx.Center.GetByID(ctx, centerID); err != nil {
				return notFoundOr(err, ErrCenterNotFound)
			}
			if err := tx.Course.AddCenter(ctx, &model.CourseCenter{ModuleID: course.ModuleID, CenterID: centerID}); err != nil {
				return pkgerrors.Dependency(err)
			}
		}
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindDependency {
			s.logger.Error("创建课程模块失败", zap.Error(err))
		}
		return nil, err
	}
	return course, nil
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ────────────────────── Query ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id string) (*model.CourseModule, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrCourseNotFound)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]model.CourseModule, int64, error) {
	list, total, err := s.repo.Course.List(ctx, repository.CourseFilter{
		Category:    req.Category,
		Level:       req.Level,
		MachineType: req.MachineType,
		Status:      req.Status,
		Page:        toPage(req.PaginationRequest),
	})
	if err != nil {
		s.logger.Error("列出课程模块失败", zap.Error(err))
		return nil, 0, pkgerrors.Dependency(err)
	}
	return list, total, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*model.CourseModule, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrCourseNotFound)
	}

	hoursChanged := req.TotalHoursRequired != nil && *req.TotalHoursRequired != course.TotalHoursRequired
	levelChanged := req.Level != nil && *req.Level != course.Level
	if hoursChanged || levelChanged {
		refs, err := s.repo.Assignment.CountByModule(ctx, id)
		if err != nil {
			s.logger.Error("统计课程引用失败", zap.String("id", id), zap.Error(err))
			return nil, pkgerrors.Dependency(err)
		}
		if refs > 0 {
			return nil, ErrCourseLocked
		}
	}

	if req.ModuleName != nil {
		course.ModuleName = strings.TrimSpace(*req.ModuleName)
	}
	if req.MachineType != nil {
		course.MachineType = *req.MachineType
	}
	if req.Category != nil {
		course.Category = req.Category
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.TotalHoursRequired != nil {
		course.TotalHoursRequired = *req.TotalHoursRequired
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Prerequisites != nil {
		course.Prerequisites = datatypes.NewJSONSlice(nonNil(*req.Prerequisites))
	}
	if req.Syllabus != nil {
		course.Syllabus = datatypes.NewJSONSlice(nonNil(*req.Syllabus))
	}
	if req.CertificationName != nil {
		course.CertificationName = req.CertificationName
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Currency != nil {
		course.Currency = strings.ToUpper(*req.Currency)
	}
	if req.IconName != nil {
		course.IconName = req.IconName
	}
	if req.Color != nil {
		course.Color = *req.Color
	}
	if req.Status != nil {
		course.Status = *req.Status
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程模块失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		return notFoundOr(err, ErrCourseNotFound)
	}
	refs, err := s.repo.Assignment.CountByModule(ctx, id)
	if err != nil {
		return pkgerrors.Dependency(err)
	}
	if refs > 0 {
		return ErrCourseInUse
	}
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程模块失败", zap.String("id", id), zap.Error(err))
		return pkgerrors.Dependency(err)
	}
	return nil
}

// ────────────────────── 开设中心 ──────────────────────

func (s *courseService) AddCenter(ctx context.Context, id string, req *dto.CourseCenterRequest) (*model.CourseCenter, error) {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		return nil, notFoundOr(err, ErrCourseNotFound)
	}
	center, err := s.repo.Center.GetByID(ctx, req.CenterID)
	if err != nil {
		return nil, notFoundOr(err, ErrCenterNotFound)
	}

	cc := &model.CourseCenter{ModuleID: id, CenterID: req.CenterID}
	if err := s.repo.Course.AddCenter(ctx, cc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCourseCenterExists
		}
		s.logger.Error("添加开设中心失败", zap.String("module_id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	cc.Center = center
	return cc, nil
}

func (s *courseService) RemoveCenter(ctx context.Context, id, centerID string) error {
	ok, err := s.repo.Course.RemoveCenter(ctx, id, centerID)
	if err != nil {
		s.logger.Error("移除开设中心失败", zap.String("module_id", id), zap.Error(err))
		return pkgerrors.Dependency(err)
	}
	if !ok {
		return ErrCourseCenterNotFound
	}
	return nil
}

func (s *courseService) ListCenters(ctx context.Context, id string) ([]model.CourseCenter, error) {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		return nil, notFoundOr(err, ErrCourseNotFound)
	}
	list, err := s.repo.Course.ListCenters(ctx, id)
	if err != nil {
		return nil, pkgerrors.Dependency(err)
	}
	return list, nil
}
