package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

func TestAlertLifecycle(t *testing.T) {
	repo, _ := newMockRepository()
	svc := NewMonitoringService(repo, zap.NewNop())

	alert, err := svc.CreateAlert(context.Background(), &dto.CreateAlertRequest{
		MachineName:     "液压泵 P-3",
		MachineLocation: "2 号车间",
	})
	if err != nil {
		t.Fatalf("CreateAlert 应成功: %v", err)
	}
	if alert.AlertType != "Normal" || alert.MachineMaintenanceStatus != model.MaintenanceStatusPending {
		t.Errorf("默认值错误: %+v", alert)
	}

	updated, err := svc.UpdateAlertStatus(context.Background(), alert.AlertID, &dto.UpdateAlertStatusRequest{
		MachineMaintenanceStatus: model.MaintenanceStatusProgress,
	})
	if err != nil {
		t.Fatalf("UpdateAlertStatus 应成功: %v", err)
	}
	if !updated.MachineUnderMaintenance {
		t.Error("处理中的告警应标记设备维护中")
	}

	updated, _ = svc.UpdateAlertStatus(context.Background(), alert.AlertID, &dto.UpdateAlertStatusRequest{
		MachineMaintenanceStatus: model.MaintenanceStatusResolved,
	})
	if updated.MachineUnderMaintenance {
		t.Error("已解决的告警应解除维护标记")
	}

	list, total, err := svc.ListAlerts(context.Background(), &dto.AlertListRequest{Status: model.MaintenanceStatusResolved})
	if err != nil || total != 1 || len(list) != 1 {
		t.Errorf("期望 1 条已解决告警，实际 total=%d err=%v", total, err)
	}

	if _, err := svc.UpdateAlertStatus(context.Background(), "missing", &dto.UpdateAlertStatusRequest{MachineMaintenanceStatus: model.MaintenanceStatusResolved}); !errors.Is(err, ErrAlertNotFound) {
		t.Errorf("期望 ErrAlertNotFound，实际: %v", err)
	}
}

func TestCreateMonitoredMachine(t *testing.T) {
	repo, _ := newMockRepository()
	svc := NewMonitoringService(repo, zap.NewNop())
	start := testNow
	end := testNow.Add(8 * time.Hour)

	m, err := svc.CreateMonitoredMachine(context.Background(), &dto.CreateMonitoredMachineRequest{
		MachineName:     "传送带 C-1",
		MachineLocation: "装配线",
		StartTime:       &start,
		EndTime:         &end,
	})
	if err != nil {
		t.Fatalf("CreateMonitoredMachine 应成功: %v", err)
	}
	if m.Username != "guest" {
		t.Errorf("默认用户名应为 guest，实际 %s", m.Username)
	}

	_, err = svc.CreateMonitoredMachine(context.Background(), &dto.CreateMonitoredMachineRequest{
		MachineName:     "传送带 C-1",
		MachineLocation: "装配线",
		StartTime:       &end,
		EndTime:         &start,
	})
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("结束早于开始期望 ErrInvalidTimeRange，实际: %v", err)
	}

	list, total, err := svc.ListMonitoredMachines(context.Background(), &dto.PaginationRequest{})
	if err != nil || total != 1 || len(list) != 1 {
		t.Errorf("期望 1 条监控记录，实际 total=%d err=%v", total, err)
	}
}
