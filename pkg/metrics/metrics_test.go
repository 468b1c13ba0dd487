package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.SessionEvent("check_in", "ok")
	m.SessionEvent("check_in", "ok")
	m.BroadcastResult(3, 1)
	m.AssignmentTransition("completed")
	m.AssignmentTransitions("expired", 4)
	m.AssignmentTransitions("expired", 0)

	if got := testutil.ToFloat64(m.SessionEvents.WithLabelValues("check_in", "ok")); got != 2 {
		t.Errorf("期望 check_in=2，实际 %v", got)
	}
	if got := testutil.ToFloat64(m.BroadcastSends.WithLabelValues("failed")); got != 1 {
		t.Errorf("期望 failed=1，实际 %v", got)
	}
	if got := testutil.ToFloat64(m.AssignmentMoves.WithLabelValues("completed")); got != 1 {
		t.Errorf("期望 completed=1，实际 %v", got)
	}
	if got := testutil.ToFloat64(m.AssignmentMoves.WithLabelValues("expired")); got != 4 {
		t.Errorf("期望 expired=4，实际 %v", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.SessionEvent("check_out", "ok")
	m.ObserveSessionHours(1)
	m.AssignmentTransition("expired")
	m.BroadcastResult(1, 0)
}
