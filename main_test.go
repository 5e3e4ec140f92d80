package main

import (
	"testing"

	"github.com/robfig/cron/v3"
)

func TestSweepScheduleParses(t *testing.T) {
	if _, err := cron.ParseStandard(sweepSchedule); err != nil {
		t.Fatalf("invalid sweep schedule %q: %v", sweepSchedule, err)
	}
}
