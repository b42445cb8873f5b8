package domain

// TaskParams is the closed set of per-kind generation parameters. Each kind
// carries a structured variant so required inputs are checked at task
// creation rather than deep inside a provider call; provider-specific
// passthrough fields ride in the Extra map.
type TaskParams interface {
	// Kind returns the task kind this parameter set belongs to.
	Kind() TaskKind

	// ModelName returns the generation model to invoke. Empty means the
	// configured default for the kind.
	ModelName() string

	// Validate checks required inputs for the kind.
	Validate() error

	// Snapshot flattens the parameters into the generic map recorded on
	// the resulting version.
	Snapshot() map[string]any
}

// TextToImageParams configures a text-to-image task.
type TextToImageParams struct {
	Model          string
	NegativePrompt string
	Width          int
	Height         int
	Extra          map[string]any
}

// DefaultImageSize is the width and height used when a text-to-image task
// does not specify a resolution.
const DefaultImageSize = 1024

func (p TextToImageParams) Kind() TaskKind { return TaskKindTextToImage }
func (p TextToImageParams) ModelName() string { return p.Model }
func (p TextToImageParams) Validate() error { return nil }

// Size returns the requested output resolution, applying defaults.
func (p TextToImageParams) Size() (width, height int) {
	width, height = p.Width, p.Height
	if width <= 0 {
		width = DefaultImageSize
	}
	if height <= 0 {
		height = DefaultImageSize
	}
	return width, height
}

func (p TextToImageParams) Snapshot() map[string]any {
	w, h := p.Size()
	m := map[string]any{
		"negative_prompt": p.NegativePrompt,
		"width":           w,
		"height":          h,
	}
	mergeExtra(m, p.Extra)
	return m
}

// TextToVideoParams configures a text-to-video task.
type TextToVideoParams struct {
	Model          string
	NegativePrompt string
	Duration       float64
	FPS            int
	Extra          map[string]any
}

func (p TextToVideoParams) Kind() TaskKind { return TaskKindTextToVideo }
func (p TextToVideoParams) ModelName() string { return p.Model }
func (p TextToVideoParams) Validate() error { return nil }

func (p TextToVideoParams) Snapshot() map[string]any {
	m := map[string]any{
		"negative_prompt": p.NegativePrompt,
		"duration":        p.Duration,
		"fps":             p.FPS,
	}
	mergeExtra(m, p.Extra)
	return m
}

// ImageToVideoParams configures an image-to-video task. ImageURL is the
// source image reference and is required.
type ImageToVideoParams struct {
	Model    string
	ImageURL string
	Duration float64
	FPS      int
	Extra    map[string]any
}

func (p ImageToVideoParams) Kind() TaskKind { return TaskKindImageToVideo }
func (p ImageToVideoParams) ModelName() string { return p.Model }

func (p ImageToVideoParams) Validate() error {
	if p.ImageURL == "" {
		return ErrMissingSourceImage
	}
	return nil
}

func (p ImageToVideoParams) Snapshot() map[string]any {
	m := map[string]any{
		"image_url": p.ImageURL,
		"duration":  p.Duration,
		"fps":       p.FPS,
	}
	mergeExtra(m, p.Extra)
	return m
}

func mergeExtra(dst map[string]any, extra map[string]any) {
	for k, v := range extra {
		dst[k] = v
	}
}
