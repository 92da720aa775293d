package detect

// View models for the raw object-detection service. Fields missing from
// a response decode to their zero value, decoding never fails on a
// partial body.

type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Device    string `json:"device"`
	GPUMemory string `json:"gpu_memory"`
}

func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

type GPUInfo struct {
	GPUAvailable    bool   `json:"gpu_available"`
	DeviceCount     int    `json:"device_count"`
	CurrentDevice   int    `json:"current_device"`
	DeviceName      string `json:"device_name"`
	CUDAVersion     string `json:"cuda_version"`
	PyTorchVersion  string `json:"pytorch_version"`
	MemoryAllocated string `json:"memory_allocated"`
	MemoryReserved  string `json:"memory_reserved"`
}

type ModelInfo struct {
	ModelName string         `json:"model_name"`
	Device    string         `json:"device"`
	InputSize int            `json:"input_size"`
	Classes   map[string]any `json:"classes"`
	Task      string         `json:"task"`
}

type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type Detection struct {
	ID         int     `json:"id"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`
}

type PredictionResult struct {
	Success     bool        `json:"success"`
	Timestamp   string      `json:"timestamp"`
	ImageShape  []int       `json:"image_shape"`
	Detections  []Detection `json:"detections"`
	ResultImage string      `json:"result_image"`
}

type BatchItemResult struct {
	Filename       string      `json:"filename"`
	Success        bool        `json:"success"`
	Error          string      `json:"error,omitempty"`
	DetectionCount int         `json:"detection_count"`
	Detections     []Detection `json:"detections"`
}

type BatchPredictionResult struct {
	Results []BatchItemResult `json:"results"`
}

type ResultsList struct {
	Total int      `json:"total"`
	Files []string `json:"files"`
}
