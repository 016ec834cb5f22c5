package events

import (
	"strings"
	"testing"
	"time"
)

func TestRunMessageRoundTrip(t *testing.T) {
	msg := NewRunMessage(KindImport, StatusFailed)
	msg.Expenses = 10
	msg.Budgets = 2
	msg.Savings = 1
	msg.Error = "restore budgets: boom"

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}
	got, err := RunMessageFromJSON(data)
	if err != nil {
		t.Fatalf("RunMessageFromJSON() error: %v", err)
	}

	if got.Kind != KindImport || got.Status != StatusFailed {
		t.Errorf("kind/status = %q/%q", got.Kind, got.Status)
	}
	if got.Expenses != 10 || got.Budgets != 2 || got.Savings != 1 {
		t.Errorf("counts = %d/%d/%d", got.Expenses, got.Budgets, got.Savings)
	}
	if got.Error != "restore budgets: boom" {
		t.Errorf("error = %q", got.Error)
	}
	if !got.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, msg.Timestamp)
	}
}

func TestNewRunMessageStampsTime(t *testing.T) {
	before := time.Now()
	msg := NewRunMessage(KindExport, StatusCompleted)
	if msg.Timestamp.Before(before) {
		t.Errorf("Timestamp = %v, want >= %v", msg.Timestamp, before)
	}
}

func TestRunMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := RunMessageFromJSON([]byte("not json")); err == nil {
		t.Error("RunMessageFromJSON() accepted garbage")
	}
}

func TestErrorOmittedWhenEmpty(t *testing.T) {
	msg := NewRunMessage(KindClear, StatusCompleted)
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("ToJSON() = %s, want error key omitted", data)
	}
}
