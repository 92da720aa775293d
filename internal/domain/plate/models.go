package plate

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lookup sources recorded in the scan log.
const (
	SourceCamera = "camera"
	SourceManual = "manual"
)

// Alert levels derived from violation presence. The level is an open
// string on the wire, these are the two values the backend emits today.
const (
	AlertLevelNormal = "normal"
	AlertLevelHigh   = "high"
)

type BBox struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence,omitempty"`
}

type ViolationDetail struct {
	ID          int64    `json:"id"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	Location    string   `json:"location,omitempty"`
	FineAmount  float64  `json:"fine_amount"`
	IsPaid      bool     `json:"is_paid"`
	Description string   `json:"description,omitempty"`
	Speed       *float64 `json:"speed,omitempty"`
	SpeedLimit  *float64 `json:"speed_limit,omitempty"`
}

// ViolationSummary carries the per-plate violation totals. The flagged
// state is computed from the count, it is not an independent field.
type ViolationSummary struct {
	ViolationCount    int               `json:"violation_count"`
	TotalFine         float64           `json:"total_fine"`
	LastViolationDate string            `json:"last_violation_date,omitempty"`
	Details           []ViolationDetail `json:"violation_details"`
}

func (s ViolationSummary) HasViolations() bool {
	return s.ViolationCount > 0
}

// OwnerInfo is the registered-owner record for a plate. When Found is
// false every other field is empty and rendering skips the section.
type OwnerInfo struct {
	Found        bool   `json:"found"`
	OwnerName    string `json:"owner_name,omitempty"`
	OwnerPhone   string `json:"owner_phone,omitempty"`
	OwnerEmail   string `json:"owner_email,omitempty"`
	VehicleType  string `json:"vehicle_type,omitempty"`
	VehicleColor string `json:"vehicle_color,omitempty"`
	IsActive     bool   `json:"is_active,omitempty"`
}

type AlertStatus struct {
	IsFlagged  bool   `json:"is_flagged"`
	AlertLevel string `json:"alert_level"`
	Message    string `json:"message"`
}

// DeriveAlert builds the alert for a lookup that did not go through the
// backend's vision pipeline. Matches the strings the backend emits on
// the detection path so both paths render identically.
func DeriveAlert(violationCount int) AlertStatus {
	if violationCount > 0 {
		return AlertStatus{
			IsFlagged:  true,
			AlertLevel: AlertLevelHigh,
			Message:    fmt.Sprintf("⚠️ %d violations found", violationCount),
		}
	}
	return AlertStatus{
		IsFlagged:  false,
		AlertLevel: AlertLevelNormal,
		Message:    "✓ No violations",
	}
}

// DetectionRecord is the unified result of one completed lookup,
// whether it came from an uploaded image or a typed plate number.
// Immutable once built.
type DetectionRecord struct {
	PlateNumber         string           `json:"plate_number"`
	DetectionConfidence float64          `json:"detection_confidence"`
	OCRConfidence       float64          `json:"ocr_confidence"`
	CroppedPlateImage   string           `json:"cropped_plate_image,omitempty"`
	BBox                *BBox            `json:"bbox,omitempty"`
	Violations          ViolationSummary `json:"violations"`
	Owner               OwnerInfo        `json:"owner_info"`
	Alert               AlertStatus      `json:"alert_status"`
	Source              string           `json:"source"`
}

// ScanLogEntry is the compact durable form of a completed lookup kept
// in the local scan history. Never mutated after creation.
type ScanLogEntry struct {
	ID             string    `json:"id"`
	PlateNumber    string    `json:"plateNumber"`
	ScanTime       time.Time `json:"scanTime"`
	ViolationCount int       `json:"violationCount"`
	HasViolations  bool      `json:"hasViolations"`
	Source         string    `json:"source"`
}

// NewScanLogEntry snapshots a record into its history form, stamped now.
func NewScanLogEntry(rec *DetectionRecord) ScanLogEntry {
	return ScanLogEntry{
		ID:             uuid.NewString(),
		PlateNumber:    rec.PlateNumber,
		ScanTime:       time.Now().UTC(),
		ViolationCount: rec.Violations.ViolationCount,
		HasViolations:  rec.Violations.HasViolations(),
		Source:         rec.Source,
	}
}
