package log

import (
	"testing"
	"time"
)

func TestAppendAndReadAll(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events := []LogEvent{
		{Event: EventLoginSucceeded, Username: "farmer1"},
		{Event: EventAnalysisSubmitted, Image: "hen.jpg", Symptoms: []string{"sneezing"}},
		{Event: EventAnalysisCompleted, Image: "hen.jpg", State: "mild", Confidence: 82, DurationMs: 1200},
	}
	for _, e := range events {
		if err := logger.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	read, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(read) != 3 {
		t.Fatalf("events: got %d, want 3", len(read))
	}
	if read[0].Event != EventLoginSucceeded || read[0].Username != "farmer1" {
		t.Errorf("first event mismatch: %+v", read[0])
	}
	if read[2].Confidence != 82 || read[2].State != "mild" {
		t.Errorf("third event mismatch: %+v", read[2])
	}
	if read[0].Time.IsZero() {
		t.Error("Append should stamp a zero Time with now")
	}
}

func TestReadAllMissingFile(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events: got %d, want 0", len(events))
	}
}

func TestAppendPreservesExplicitTime(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	stamp := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	if err := logger.Append(LogEvent{Event: EventLogout, Time: stamp}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	read, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !read[0].Time.Equal(stamp) {
		t.Errorf("time: got %v, want %v", read[0].Time, stamp)
	}
}
