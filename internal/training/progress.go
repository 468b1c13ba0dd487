package training

import (
	"sort"
	"time"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

// ProgressSummary 单个培训分配的课程进度
type ProgressSummary struct {
	AssignmentID           string     `json:"assignment_id"`
	TotalHoursCompleted    float64    `json:"total_hours_completed"`
	TotalHoursRequired     float64    `json:"total_hours_required"`
	ProgressPercentage     float64    `json:"progress_percentage"`
	RemainingHours         float64    `json:"remaining_hours"`
	HoursOver              float64    `json:"hours_over"`
	SessionCount           int        `json:"session_count"`
	UniqueCenters          int        `json:"unique_centers"`
	UniqueMachines         int        `json:"unique_machines"`
	AverageHoursPerSession float64    `json:"average_hours_per_session"`
	FirstSessionDate       *time.Time `json:"first_session_date"`
	LastSessionDate        *time.Time `json:"last_session_date"`
}

// ComputeProgress 基于已存储的全部训练记录（不区分状态）汇总进度
// clamp 为 true 时百分比封顶 100，超出部分体现在 HoursOver
func ComputeProgress(assignmentID string, required float64, sessions []model.TrainingSession, clamp bool) ProgressSummary {
	ordered := make([]model.TrainingSession, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CheckInTime.Before(ordered[j].CheckInTime)
	})

	var total float64
	centers := make(map[string]struct{})
	machines := make(map[string]struct{})
	for _, s := range ordered {
		total += s.HoursCompleted
		centers[s.CenterID] = struct{}{}
		machines[s.MachineID] = struct{}{}
	}
	total = Round2(total)

	summary := ProgressSummary{
		AssignmentID:        assignmentID,
		TotalHoursCompleted: total,
		TotalHoursRequired:  required,
		SessionCount:        len(ordered),
		UniqueCenters:       len(centers),
		UniqueMachines:      len(machines),
	}

	if required > 0 {
		pct := Round2(total / required * 100)
		if clamp && pct > 100 {
			pct = 100
		}
		summary.ProgressPercentage = pct
	}
	if remaining := required - total; remaining > 0 {
		summary.RemainingHours = Round2(remaining)
	}
	if over := total - required; over > 0 {
		summary.HoursOver = Round2(over)
	}

	count := len(ordered)
	if count == 0 {
		count = 1
	}
	summary.AverageHoursPerSession = Round2(total / float64(count))

	if len(ordered) > 0 {
		first := ordered[0].CheckInTime
		last := ordered[len(ordered)-1].CheckInTime
		summary.FirstSessionDate = &first
		summary.LastSessionDate = &last
	}
	return summary
}

// ────── 学员看板 ──────

// AssignmentSessions 看板汇总的输入：分配及其全部训练记录
type AssignmentSessions struct {
	Assignment model.UserTrainingAssignment
	Required   float64
	Sessions   []model.TrainingSession
}

// AssignmentProgress 看板中单个分配的进度
type AssignmentProgress struct {
	AssignmentID string          `json:"assignment_id"`
	ModuleID     string          `json:"module_id"`
	ModuleName   string          `json:"module_name"`
	Status       string          `json:"status"`
	ExpiryDate   time.Time       `json:"expiry_date"`
	Progress     ProgressSummary `json:"progress"`
}

// DashboardStats 学员维度汇总
type DashboardStats struct {
	TotalAssignments       int                  `json:"total_assignments"`
	ActiveAssignments      int                  `json:"active_assignments"`
	CompletedAssignments   int                  `json:"completed_assignments"`
	ExpiredAssignments     int                  `json:"expired_assignments"`
	CancelledAssignments   int                  `json:"cancelled_assignments"`
	TotalHours             float64              `json:"total_hours"`
	TotalSessions          int                  `json:"total_sessions"`
	UniqueCentersVisited   int                  `json:"unique_centers_visited"`
	UniqueMachinesUsed     int                  `json:"unique_machines_used"`
	AverageSessionDuration float64              `json:"average_session_duration"`
	Assignments            []AssignmentProgress `json:"assignments"`
}

// AggregateDashboard 逐个分配复用 ComputeProgress 后汇总；中心与设备按 ID 去重
func AggregateDashboard(items []AssignmentSessions, clamp bool) DashboardStats {
	stats := DashboardStats{
		TotalAssignments: len(items),
		Assignments:      make([]AssignmentProgress, 0, len(items)),
	}
	centers := make(map[string]struct{})
	machines := make(map[string]struct{})

	var hours float64
	for _, item := range items {
		a := item.Assignment
		switch a.Status {
		case model.AssignmentStatusActive:
			stats.ActiveAssignments++
		case model.AssignmentStatusCompleted:
			stats.CompletedAssignments++
		case model.AssignmentStatusExpired:
			stats.ExpiredAssignments++
		case model.AssignmentStatusCancelled:
			stats.CancelledAssignments++
		}

		p := ComputeProgress(a.AssignmentID, item.Required, item.Sessions, clamp)
		hours += p.TotalHoursCompleted
		stats.TotalSessions += p.SessionCount
		for _, s := range item.Sessions {
			centers[s.CenterID] = struct{}{}
			machines[s.MachineID] = struct{}{}
		}

		ap := AssignmentProgress{
			AssignmentID: a.AssignmentID,
			ModuleID:     a.ModuleID,
			Status:       a.Status,
			ExpiryDate:   a.ExpiryDate,
			Progress:     p,
		}
		if a.Module != nil {
			ap.ModuleName = a.Module.ModuleName
		}
		stats.Assignments = append(stats.Assignments, ap)
	}

	stats.TotalHours = Round2(hours)
	stats.UniqueCentersVisited = len(centers)
	stats.UniqueMachinesUsed = len(machines)
	if stats.TotalSessions > 0 {
		stats.AverageSessionDuration = Round2(hours / float64(stats.TotalSessions))
	}
	return stats
}
