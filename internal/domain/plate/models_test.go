package plate

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestViolationSummaryHasViolations(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  bool
	}{
		{"zero violations", 0, false},
		{"one violation", 1, true},
		{"many violations", 17, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ViolationSummary{ViolationCount: tt.count}
			if got := s.HasViolations(); got != tt.want {
				t.Errorf("HasViolations() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriveAlert(t *testing.T) {
	flagged := DeriveAlert(3)
	if !flagged.IsFlagged {
		t.Error("expected flagged alert for 3 violations")
	}
	if flagged.AlertLevel != AlertLevelHigh {
		t.Errorf("alert level = %q, want %q", flagged.AlertLevel, AlertLevelHigh)
	}
	if !strings.Contains(flagged.Message, "3") {
		t.Errorf("alert message %q should contain the violation count", flagged.Message)
	}

	clean := DeriveAlert(0)
	if clean.IsFlagged {
		t.Error("expected unflagged alert for 0 violations")
	}
	if clean.AlertLevel != AlertLevelNormal {
		t.Errorf("alert level = %q, want %q", clean.AlertLevel, AlertLevelNormal)
	}
	if clean.Message != "✓ No violations" {
		t.Errorf("alert message = %q", clean.Message)
	}
}

func TestDetectionRecordRoundTrip(t *testing.T) {
	rec := DetectionRecord{
		PlateNumber:         "ABC1234",
		DetectionConfidence: 0.92,
		OCRConfidence:       0.87,
		CroppedPlateImage:   "plate_0_20251210_101500.jpg",
		Violations: ViolationSummary{
			ViolationCount:    2,
			TotalFine:         1000,
			LastViolationDate: "2025-12-10T00:00:00",
			Details: []ViolationDetail{
				{ID: 1, Type: "Speeding", Date: "2025-12-10T00:00:00", FineAmount: 500},
				{ID: 2, Type: "Parking", Date: "2025-11-02T00:00:00", FineAmount: 500, IsPaid: true},
			},
		},
		Owner:  OwnerInfo{Found: true, OwnerName: "Juan Dela Cruz"},
		Alert:  DeriveAlert(2),
		Source: SourceCamera,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back DetectionRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if back.PlateNumber != rec.PlateNumber {
		t.Errorf("plate = %q, want %q", back.PlateNumber, rec.PlateNumber)
	}
	if back.DetectionConfidence != rec.DetectionConfidence || back.OCRConfidence != rec.OCRConfidence {
		t.Errorf("confidences = %v/%v, want %v/%v",
			back.DetectionConfidence, back.OCRConfidence, rec.DetectionConfidence, rec.OCRConfidence)
	}
	if back.Violations.ViolationCount != rec.Violations.ViolationCount {
		t.Errorf("violation count = %d, want %d", back.Violations.ViolationCount, rec.Violations.ViolationCount)
	}
	if len(back.Violations.Details) != 2 {
		t.Errorf("details = %d entries, want 2", len(back.Violations.Details))
	}
}

func TestNewScanLogEntry(t *testing.T) {
	rec := &DetectionRecord{
		PlateNumber: "XYZ9876",
		Violations:  ViolationSummary{ViolationCount: 4},
		Source:      SourceManual,
	}

	before := time.Now().UTC()
	entry := NewScanLogEntry(rec)
	after := time.Now().UTC()

	if entry.ID == "" {
		t.Error("entry ID should not be empty")
	}
	if entry.PlateNumber != "XYZ9876" {
		t.Errorf("plate = %q", entry.PlateNumber)
	}
	if entry.ViolationCount != 4 || !entry.HasViolations {
		t.Errorf("violations = %d/%v, want 4/true", entry.ViolationCount, entry.HasViolations)
	}
	if entry.Source != SourceManual {
		t.Errorf("source = %q", entry.Source)
	}
	if entry.ScanTime.Before(before) || entry.ScanTime.After(after) {
		t.Errorf("scan time %v outside [%v, %v]", entry.ScanTime, before, after)
	}
}

func TestScanLogEntryJSONKeys(t *testing.T) {
	entry := ScanLogEntry{
		ID:             "id-1",
		PlateNumber:    "ABC1234",
		ScanTime:       time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
		ViolationCount: 1,
		HasViolations:  true,
		Source:         SourceCamera,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "plateNumber", "scanTime", "violationCount", "hasViolations", "source"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("serialized entry missing key %q", key)
		}
	}
}
