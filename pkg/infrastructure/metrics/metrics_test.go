package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_RecordsWhenEnabled(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("regenerative", "completed"))

	NewRecorder(true).RecordRun("regenerative", "completed", 250*time.Millisecond)

	after := testutil.ToFloat64(RunsTotal.WithLabelValues("regenerative", "completed"))
	if after-before != 1 {
		t.Errorf("Expected run counter to increase by 1, got %v", after-before)
	}
}

func TestRecorder_DisabledAndNilAreNoOps(t *testing.T) {
	before := testutil.ToFloat64(IssuesTotal.WithLabelValues("data_gap", "no_bom"))

	NewRecorder(false).RecordIssue("data_gap", "no_bom")
	var nilRecorder *Recorder
	nilRecorder.RecordIssue("data_gap", "no_bom")

	if got := testutil.ToFloat64(IssuesTotal.WithLabelValues("data_gap", "no_bom")); got != before {
		t.Errorf("Expected issue counter unchanged at %v, got %v", before, got)
	}
}
