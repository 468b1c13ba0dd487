package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
)

func TestCreateCourse_Defaults(t *testing.T) {
	repo, store := newMockRepository()
	svc := NewCourseService(repo, zap.NewNop())
	center := seedCenter(store)

	course, err := svc.Create(context.Background(), &dto.CreateCourseRequest{
		ModuleName:         " CNC 进阶 ",
		MachineType:        "CNC",
		TotalHoursRequired: 20,
		Currency:           "inr",
		CenterIDs:          []string{center.CenterID},
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if course.Level != "Beginner" || course.Currency != "INR" || course.Color != "#3B82F6" {
		t.Errorf("默认值错误: level=%s currency=%s color=%s", course.Level, course.Currency, course.Color)
	}
	if course.Prerequisites == nil || course.Syllabus == nil {
		t.Error("JSON 数组字段不应为 nil")
	}

	centers, err := svc.ListCenters(context.Background(), course.ModuleID)
	if err != nil || len(centers) != 1 {
		t.Errorf("期望 1 个开设中心，实际 %d, %v", len(centers), err)
	}
}

func TestUpdateCourse_LockedWhenAssigned(t *testing.T) {
	repo, store := newMockRepository()
	svc := NewCourseService(repo, zap.NewNop())
	user := seedUser(store, "trainee@test.com")
	course := seedCourse(store, 10)
	seedAssignment(store, user.UserID, course.ModuleID, testNow, testNow.AddDate(0, 3, 0))

	hours := 12.0
	if _, err := svc.Update(context.Background(), course.ModuleID, &dto.UpdateCourseRequest{TotalHoursRequired: &hours}); !errors.Is(err, ErrCourseLocked) {
		t.Errorf("被引用课程修改学时期望 ErrCourseLocked，实际: %v", err)
	}
	level := "Advanced"
	if _, err := svc.Update(context.Background(), course.ModuleID, &dto.UpdateCourseRequest{Level: &level}); !errors.Is(err, ErrCourseLocked) {
		t.Errorf("被引用课程修改级别期望 ErrCourseLocked，实际: %v", err)
	}

	same := 10.0
	name := "CNC 基础操作（新版）"
	updated, err := svc.Update(context.Background(), course.ModuleID, &dto.UpdateCourseRequest{TotalHoursRequired: &same, ModuleName: &name})
	if err != nil {
		t.Fatalf("学时不变时更新应成功: %v", err)
	}
	if updated.ModuleName != name {
		t.Errorf("期望名称 %s，实际 %s", name, updated.ModuleName)
	}

	if err := svc.Delete(context.Background(), course.ModuleID); !errors.Is(err, ErrCourseInUse) {
		t.Errorf("被引用课程删除期望 ErrCourseInUse，实际: %v", err)
	}
}

func TestCourseCenters(t *testing.T) {
	repo, store := newMockRepository()
	svc := NewCourseService(repo, zap.NewNop())
	course := seedCourse(store, 10)
	center := seedCenter(store)

	if _, err := svc.AddCenter(context.Background(), course.ModuleID, &dto.CourseCenterRequest{CenterID: center.CenterID}); err != nil {
		t.Fatalf("AddCenter 应成功: %v", err)
	}
	if _, err := svc.AddCenter(context.Background(), course.ModuleID, &dto.CourseCenterRequest{CenterID: center.CenterID}); !errors.Is(err, ErrCourseCenterExists) {
		t.Errorf("期望 ErrCourseCenterExists，实际: %v", err)
	}
	if err := svc.RemoveCenter(context.Background(), course.ModuleID, center.CenterID); err != nil {
		t.Fatalf("RemoveCenter 应成功: %v", err)
	}
	if err := svc.RemoveCenter(context.Background(), course.ModuleID, center.CenterID); !errors.Is(err, ErrCourseCenterNotFound) {
		t.Errorf("期望 ErrCourseCenterNotFound，实际: %v", err)
	}
}

// ── 培训中心 / 设备 ──

func TestCenter_MachineCount(t *testing.T) {
	repo, store := newMockRepository()
	svc := NewCenterService(repo, zap.NewNop())
	center := seedCenter(store)
	seedMachine(store, center.CenterID, model.MachineStatusActive)
	seedMachine(store, center.CenterID, model.MachineStatusOffline)

	got, err := svc.GetByID(context.Background(), center.CenterID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if got.MachineCount != 2 {
		t.Errorf("期望设备数 2，实际 %d", got.MachineCount)
	}

	list, total, err := svc.List(context.Background(), &dto.CenterListRequest{})
	if err != nil || total != 1 || list[0].MachineCount != 2 {
		t.Errorf("列表设备数错误: total=%d list=%+v err=%v", total, list, err)
	}

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrCenterNotFound) {
		t.Errorf("期望 ErrCenterNotFound，实际: %v", err)
	}
}

func TestMachine_CreateAndMaintenance(t *testing.T) {
	repo, store := newMockRepository()
	svc := NewMachineService(repo, zap.NewNop())
	center := seedCenter(store)
	qr := "QR-001"

	machine, err := svc.Create(context.Background(), &dto.CreateMachineRequest{
		Name:           "焊接机器人",
		Type:           "Welding",
		ModelNumber:    "W-200",
		CenterID:       center.CenterID,
		QRCode:         &qr,
		Specifications: &dto.MachineSpecifications{Power: "5kW"},
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if machine.Status != model.MachineStatusActive {
		t.Errorf("默认状态应为 active，实际 %s", machine.Status)
	}
	if machine.Specifications.Data().Power != "5kW" {
		t.Errorf("规格未写入: %+v", machine.Specifications.Data())
	}

	_, err = svc.Create(context.Background(), &dto.CreateMachineRequest{Name: "重复", Type: "Welding", ModelNumber: "W-200", CenterID: center.CenterID, QRCode: &qr})
	if !errors.Is(err, ErrQRCodeExists) {
		t.Errorf("重复二维码期望 ErrQRCodeExists，实际: %v", err)
	}

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	earlier := date.AddDate(0, 0, -1)
	_, err = svc.LogMaintenance(context.Background(), machine.MachineID, &dto.LogMaintenanceRequest{
		Date: &date, Type: "inspection", PerformedBy: "tech", NextMaintenance: &earlier,
	})
	if pkgerrors.KindOf(err) != pkgerrors.KindValidation {
		t.Errorf("下次维护早于本次期望校验错误，实际: %v", err)
	}

	status := model.MachineStatusMaintenance
	next := date.AddDate(0, 3, 0)
	updated, err := svc.LogMaintenance(context.Background(), machine.MachineID, &dto.LogMaintenanceRequest{
		Date: &date, Type: "inspection", PerformedBy: "tech", NextMaintenance: &next, Status: &status,
	})
	if err != nil {
		t.Fatalf("LogMaintenance 应成功: %v", err)
	}
	if len(updated.MaintenanceHistory) != 1 || updated.MaintenanceHistory[0].Type != "inspection" {
		t.Errorf("维护记录未追加: %+v", updated.MaintenanceHistory)
	}
	if updated.LastMaintenance == nil || !updated.LastMaintenance.Equal(date) {
		t.Errorf("LastMaintenance 错误: %v", updated.LastMaintenance)
	}
	if updated.Status != model.MachineStatusMaintenance {
		t.Errorf("期望状态 maintenance，实际 %s", updated.Status)
	}
}
