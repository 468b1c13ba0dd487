// Package training 实现培训签到计时、课程进度汇总与培训分配状态机。
// 包内函数不访问存储，仅依赖调用方传入的记录与时间。
package training

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

// ErrSessionNotInProgress 记录已签退或已审核
var ErrSessionNotInProgress = errors.New("训练记录不在进行中")

// Round2 四舍五入保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SessionHours 计算签到到签退的时长（小时，两位小数）
// 签退早于签到时返回 0 并报告时钟偏差
func SessionHours(checkIn, checkOut time.Time) (hours float64, clockSkew bool) {
	d := checkOut.Sub(checkIn)
	if d < 0 {
		return 0, true
	}
	return Round2(d.Hours()), false
}

// NewSession 构造一条进行中的训练记录
func NewSession(userID, assignmentID, centerID, machineID, notes string, now time.Time) *model.TrainingSession {
	return &model.TrainingSession{
		UserID:         userID,
		AssignmentID:   assignmentID,
		CenterID:       centerID,
		MachineID:      machineID,
		CheckInTime:    now,
		HoursCompleted: 0,
		Status:         model.SessionStatusInProgress,
		Notes:          strings.TrimSpace(notes),
	}
}

// CloseSession 签退：写入签退时间、时长与状态，追加备注
// 返回是否发生时钟偏差
func CloseSession(s *model.TrainingSession, now time.Time, notes string) (bool, error) {
	if s.Status != model.SessionStatusInProgress {
		return false, ErrSessionNotInProgress
	}

	hours, skew := SessionHours(s.CheckInTime, now)
	checkOut := now
	s.CheckOutTime = &checkOut
	s.HoursCompleted = hours
	s.ClockSkew = skew
	s.Status = model.SessionStatusCompleted
	s.Notes = AppendNotes(s.Notes, notes)
	return skew, nil
}

// AppendNotes 将签退备注追加到签到备注之后
func AppendNotes(existing, extra string) string {
	extra = strings.TrimSpace(extra)
	switch {
	case extra == "":
		return existing
	case existing == "":
		return extra
	default:
		return existing + "\n" + extra
	}
}
