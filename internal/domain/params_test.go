package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextToImageParams_Size(t *testing.T) {
	t.Parallel()

	w, h := TextToImageParams{}.Size()
	assert.Equal(t, DefaultImageSize, w)
	assert.Equal(t, DefaultImageSize, h)

	w, h = TextToImageParams{Width: 512, Height: 768}.Size()
	assert.Equal(t, 512, w)
	assert.Equal(t, 768, h)

	w, h = TextToImageParams{Width: -1, Height: 320}.Size()
	assert.Equal(t, DefaultImageSize, w)
	assert.Equal(t, 320, h)
}

func TestImageToVideoParams_Validate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ImageToVideoParams{}.Validate(), ErrMissingSourceImage)
	assert.NoError(t, ImageToVideoParams{ImageURL: "https://example.com/a.png"}.Validate())
}

func TestParams_Snapshot(t *testing.T) {
	t.Parallel()

	t.Run("text-to-image includes resolved size", func(t *testing.T) {
		t.Parallel()

		snap := TextToImageParams{NegativePrompt: "blurry"}.Snapshot()
		assert.Equal(t, "blurry", snap["negative_prompt"])
		assert.Equal(t, DefaultImageSize, snap["width"])
		assert.Equal(t, DefaultImageSize, snap["height"])
	})

	t.Run("extra fields pass through", func(t *testing.T) {
		t.Parallel()

		snap := TextToVideoParams{
			Duration: 4,
			FPS:      24,
			Extra:    map[string]any{"seed": 7},
		}.Snapshot()
		assert.Equal(t, float64(4), snap["duration"])
		assert.Equal(t, 24, snap["fps"])
		assert.Equal(t, 7, snap["seed"])
	})

	t.Run("image-to-video carries source url", func(t *testing.T) {
		t.Parallel()

		snap := ImageToVideoParams{ImageURL: "https://example.com/a.png"}.Snapshot()
		assert.Equal(t, "https://example.com/a.png", snap["image_url"])
	})
}
