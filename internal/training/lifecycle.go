package training

import (
	"errors"
	"time"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

// ErrInvalidTransition 分配状态不允许该迁移
var ErrInvalidTransition = errors.New("培训分配状态不允许该操作")

// transitions active 是唯一的非终态
var transitions = map[string]map[string]bool{
	model.AssignmentStatusActive: {
		model.AssignmentStatusCompleted: true,
		model.AssignmentStatusExpired:   true,
		model.AssignmentStatusCancelled: true,
	},
}

// CanTransition 判断分配状态能否从 from 迁移到 to
func CanTransition(from, to string) bool {
	return transitions[from][to]
}

// IsTerminal 是否为终态
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

// Transition 执行状态迁移；迁移到 completed 时写入完成时间
func Transition(a *model.UserTrainingAssignment, to string, now time.Time) error {
	if !CanTransition(a.Status, to) {
		return ErrInvalidTransition
	}
	a.Status = to
	if to == model.AssignmentStatusCompleted {
		completed := now
		a.CompletedAt = &completed
	}
	return nil
}

// ExpiryDate 分配日期加上有效月数
func ExpiryDate(assigned time.Time, months int) time.Time {
	return assigned.AddDate(0, months, 0)
}

// IsOverdue active 分配已超过有效期
func IsOverdue(a *model.UserTrainingAssignment, now time.Time) bool {
	return a.Status == model.AssignmentStatusActive && now.After(a.ExpiryDate)
}

// ShouldComplete 累计学时达到课程要求（进度 >= 100%）
func ShouldComplete(a *model.UserTrainingAssignment, p ProgressSummary) bool {
	return a.Status == model.AssignmentStatusActive &&
		p.TotalHoursRequired > 0 &&
		p.TotalHoursCompleted >= p.TotalHoursRequired
}
