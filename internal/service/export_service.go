package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
)

// ErrExportGenerateFail 生成文件失败
var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

const (
	summarySheet  = "进度汇总"
	sessionsSheet = "培训记录"
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ExportAssignmentReport 导出单个培训分配的进度报表
	ExportAssignmentReport(ctx context.Context, assignmentID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	progress ProgressService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(progress ProgressService, logger *zap.Logger) ExportService {
	return &exportService{progress: progress, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAssignmentReport 导出培训进度报表
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "进度汇总"：两列键值对
//   - Sheet "培训记录"：每行一次训练，按签到时间升序

func (s *exportService) ExportAssignmentReport(ctx context.Context, assignmentID string) (*bytes.Buffer, string, error) {
	report, err := s.progress.AssignmentProgress(ctx, assignmentID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	idx, _ := f.NewSheet(summarySheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	writeSummarySheet(f, report, headerStyle)

	f.NewSheet(sessionsSheet)
	writeSessionsSheet(f, report.Sessions, headerStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("培训进度_%s.xlsx", assignmentID)
	return buf, filename, nil
}

func writeSummarySheet(f *excelize.File, report *dto.AssignmentProgressResponse, headerStyle int) {
	sum := report.Summary
	f.SetColWidth(summarySheet, "A", "A", 22)
	f.SetColWidth(summarySheet, "B", "B", 40)

	f.SetCellValue(summarySheet, "A1", "指标")
	f.SetCellValue(summarySheet, "B1", "数值")
	f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)

	rows := [][2]interface{}{
		{"分配 ID", sum.AssignmentID},
		{"已完成学时", sum.TotalHoursCompleted},
		{"要求学时", sum.TotalHoursRequired},
		{"完成进度 (%)", sum.ProgressPercentage},
		{"剩余学时", sum.RemainingHours},
		{"超出学时", sum.HoursOver},
		{"训练次数", sum.SessionCount},
		{"到访中心数", sum.UniqueCenters},
		{"使用设备数", sum.UniqueMachines},
		{"平均每次学时", sum.AverageHoursPerSession},
		{"首次训练", optionalTime(sum.FirstSessionDate)},
		{"最近训练", optionalTime(sum.LastSessionDate)},
	}
	for i, r := range rows {
		row := i + 2
		f.SetCellValue(summarySheet, cell("A", row), r[0])
		f.SetCellValue(summarySheet, cell("B", row), r[1])
	}
}

func writeSessionsSheet(f *excelize.File, sessions []dto.SessionResponse, headerStyle int) {
	headers := []string{"训练 ID", "中心", "设备", "签到时间", "签退时间", "学时", "状态", "备注"}
	widths := []float64{38, 24, 24, 22, 22, 8, 12, 40}
	for i, h := range headers {
		col := colName(i)
		f.SetColWidth(sessionsSheet, col, col, widths[i])
		f.SetCellValue(sessionsSheet, cell(col, 1), h)
	}
	f.SetCellStyle(sessionsSheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	for i, s := range sessions {
		row := i + 2
		checkOut := "-"
		if s.CheckOutTime != nil {
			checkOut = *s.CheckOutTime
		}
		values := []interface{}{
			s.ID,
			defaultString(s.CenterName, s.CenterID),
			defaultString(s.MachineName, s.MachineID),
			s.CheckInTime,
			checkOut,
			s.HoursCompleted,
			s.Status,
			s.Notes,
		}
		for j, v := range values {
			f.SetCellValue(sessionsSheet, cell(colName(j), row), v)
		}
	}
}

// ── 辅助函数 ──

func optionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return dto.FormatTime(*t)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
