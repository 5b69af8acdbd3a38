package checker_test

import (
	"testing"
	"time"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/checker"
)

func ptr(f float64) *float64 { return &f }

func TestDecidePrice(t *testing.T) {
	const target = 100.0
	cases := []struct {
		name string
		prev *float64
		cur  float64
		want checker.Decision
	}{
		{"first observation under target", nil, 90, checker.DecisionNotify},
		{"falling under target", ptr(95), 90, checker.DecisionNotify},
		{"flat under target", ptr(90), 90, checker.DecisionNotify},
		{"rising while under target", ptr(85), 90, checker.DecisionUpdateOnly},
		{"above target", ptr(120), 110, checker.DecisionUpdateOnly},
		{"first observation above target", nil, 110, checker.DecisionUpdateOnly},
		{"exactly at target", ptr(105), 100, checker.DecisionNotify},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := checker.DecidePrice(tc.prev, tc.cur, target); got != tc.want {
				t.Fatalf("DecidePrice(%v, %v, %v) = %v, want %v", tc.prev, tc.cur, target, got, tc.want)
			}
		})
	}
}

func TestCooldownActive(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cooldown := 8 * time.Hour

	if checker.CooldownActive(nil, now, cooldown) {
		t.Fatal("never-notified alert must not be gated")
	}

	recent := now.Add(-time.Hour)
	if !checker.CooldownActive(&recent, now, cooldown) {
		t.Fatal("alert notified 1h ago must be gated with an 8h cooldown")
	}

	boundary := now.Add(-cooldown)
	if checker.CooldownActive(&boundary, now, cooldown) {
		t.Fatal("alert is eligible again once the cooldown has fully elapsed")
	}

	old := now.Add(-cooldown - time.Second)
	if checker.CooldownActive(&old, now, cooldown) {
		t.Fatal("alert notified beyond the cooldown must not be gated")
	}
}
