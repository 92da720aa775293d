package client

// Wire shapes returned by the plate/violation backend. Optional fields
// are pointers so absent keys stay distinguishable from zero values;
// the normalizer turns them into typed defaults.

type DetectPlatesResponse struct {
	Success        bool             `json:"success"`
	Timestamp      string           `json:"timestamp"`
	ImageShape     []int            `json:"image_shape"`
	PlatesDetected []PlateDetection `json:"plates_detected"`
	TotalPlates    int              `json:"total_plates"`
	SegmentedImage string           `json:"segmented_image"`
}

type PlateDetection struct {
	ID                  int                `json:"id"`
	PlateNumber         string             `json:"plate_number"`
	DetectionConfidence float64            `json:"detection_confidence"`
	OCRConfidence       float64            `json:"ocr_confidence"`
	CroppedPlateImage   string             `json:"cropped_plate_image"`
	BBox                *BBoxPayload       `json:"bbox"`
	Violations          *ViolationsPayload `json:"violations"`
	OwnerInfo           *OwnerPayload      `json:"owner_info"`
	AlertStatus         *AlertPayload      `json:"alert_status"`
}

type BBoxPayload struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence"`
}

type ViolationsPayload struct {
	HasViolations     bool                     `json:"has_violations"`
	ViolationCount    int                      `json:"violation_count"`
	TotalFine         float64                  `json:"total_fine"`
	IsFlagged         bool                     `json:"is_flagged"`
	LastViolationDate *string                  `json:"last_violation_date"`
	ViolationDetails  []ViolationDetailPayload `json:"violation_details"`
}

type ViolationDetailPayload struct {
	ID          int64    `json:"id"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	Location    *string  `json:"location"`
	FineAmount  float64  `json:"fine_amount"`
	IsPaid      bool     `json:"is_paid"`
	Description *string  `json:"description"`
	Speed       *float64 `json:"speed"`
	SpeedLimit  *float64 `json:"speed_limit"`
}

type OwnerPayload struct {
	Found        bool    `json:"found"`
	OwnerID      *int64  `json:"owner_id"`
	OwnerName    *string `json:"owner_name"`
	OwnerPhone   *string `json:"owner_phone"`
	OwnerEmail   *string `json:"owner_email"`
	VehicleType  *string `json:"vehicle_type"`
	VehicleColor *string `json:"vehicle_color"`
	IsActive     *bool   `json:"is_active"`
}

type AlertPayload struct {
	IsFlagged  bool   `json:"is_flagged"`
	AlertLevel string `json:"alert_level"`
	Message    string `json:"message"`
}

// ViolationsCheckResponse is the body of GET /violations/check/{plate}.
// Its per-violation records use full column names (violation_type,
// violation_date) unlike the detection payload above.
type ViolationsCheckResponse struct {
	PlateNumber    string                   `json:"plate_number"`
	HasViolations  bool                     `json:"has_violations"`
	ViolationCount int                      `json:"violation_count"`
	TotalFine      float64                  `json:"total_fine"`
	LastViolation  *string                  `json:"last_violation"`
	Violations     []ViolationRecordPayload `json:"violations"`
}

type ViolationRecordPayload struct {
	ID            int64    `json:"id"`
	PlateNumber   string   `json:"plate_number"`
	ViolationType string   `json:"violation_type"`
	ViolationDate string   `json:"violation_date"`
	Location      *string  `json:"location"`
	Speed         *float64 `json:"speed"`
	SpeedLimit    *float64 `json:"speed_limit"`
	FineAmount    *float64 `json:"fine_amount"`
	Description   *string  `json:"description"`
	IsPaid        bool     `json:"is_paid"`
	PaidDate      *string  `json:"paid_date"`
}

// VehicleInfoResponse is the body of GET /vehicles/info/{plate}.
type VehicleInfoResponse struct {
	Found        bool    `json:"found"`
	PlateNumber  string  `json:"plate_number"`
	OwnerName    *string `json:"owner_name"`
	OwnerPhone   *string `json:"owner_phone"`
	OwnerEmail   *string `json:"owner_email"`
	VehicleType  *string `json:"vehicle_type"`
	VehicleColor *string `json:"vehicle_color"`
	IsActive     *bool   `json:"is_active"`
}
