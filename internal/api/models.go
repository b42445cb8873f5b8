package api

// Common request/response structures for the generation and version APIs.

// TextToImageRequest defines the payload for creating a text-to-image task.
type TextToImageRequest struct {
	ShotID         int64          `json:"shot_id"         validate:"required,gt=0"`
	Prompt         string         `json:"prompt"          validate:"required,min=1"`
	NegativePrompt string         `json:"negative_prompt"`
	Model          string         `json:"model"`
	Width          int            `json:"width"           validate:"omitempty,gt=0"`
	Height         int            `json:"height"          validate:"omitempty,gt=0"`
	Params         map[string]any `json:"params"`
}

// TextToVideoRequest defines the payload for creating a text-to-video task.
type TextToVideoRequest struct {
	ShotID         int64          `json:"shot_id"         validate:"required,gt=0"`
	Prompt         string         `json:"prompt"          validate:"required,min=1"`
	NegativePrompt string         `json:"negative_prompt"`
	Model          string         `json:"model"`
	Duration       float64        `json:"duration"        validate:"omitempty,gt=0,lte=30"`
	FPS            int            `json:"fps"             validate:"omitempty,gte=1,lte=60"`
	Params         map[string]any `json:"params"`
}

// ImageToVideoRequest defines the payload for creating an image-to-video
// task. Prompt is optional; the source image reference is required.
type ImageToVideoRequest struct {
	ShotID   int64          `json:"shot_id"   validate:"required,gt=0"`
	ImageURL string         `json:"image_url" validate:"required"`
	Prompt   string         `json:"prompt"`
	Model    string         `json:"model"`
	Duration float64        `json:"duration"  validate:"omitempty,gt=0,lte=30"`
	FPS      int            `json:"fps"       validate:"omitempty,gte=1,lte=60"`
	Params   map[string]any `json:"params"`
}

// EstimateRequest defines the payload for the cost estimation endpoint.
type EstimateRequest struct {
	Kind   string         `json:"kind"   validate:"required"`
	Params map[string]any `json:"params"`
}

// CreateTaskResponse is the fire-and-forget acknowledgement for task
// creation endpoints.
type CreateTaskResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TaskStatusResponse is the polled task snapshot.
type TaskStatusResponse struct {
	TaskID    string `json:"task_id"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	Message   string `json:"message,omitempty"`
	ResultURL string `json:"result_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

// EstimateResponse reports the projected duration and cost of a task.
type EstimateResponse struct {
	EstimatedTime int     `json:"estimated_time"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// CreateShotRequest defines the payload for creating a shot.
type CreateShotRequest struct {
	Prompt         string  `json:"prompt"          validate:"required,min=1"`
	NegativePrompt string  `json:"negative_prompt"`
	Duration       float64 `json:"duration"        validate:"omitempty,gt=0,lte=30"`
}
