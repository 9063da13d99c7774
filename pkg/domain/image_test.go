package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageGenerationRequest_Validate(t *testing.T) {
	t.Run("寸法なしは有効であること", func(t *testing.T) {
		req := ImageGenerationRequest{Prompt: "a sprite"}
		assert.NoError(t, req.Validate())
	})

	t.Run("両方の寸法が正の値なら有効であること", func(t *testing.T) {
		req := ImageGenerationRequest{Prompt: "a sprite", Width: 1728, Height: 2304}
		assert.NoError(t, req.Validate())
	})

	t.Run("片側だけの寸法指定は無効であること", func(t *testing.T) {
		assert.Error(t, ImageGenerationRequest{Prompt: "p", Width: 1728}.Validate())
		assert.Error(t, ImageGenerationRequest{Prompt: "p", Height: 2304}.Validate())
	})

	t.Run("負の寸法は無効であること", func(t *testing.T) {
		req := ImageGenerationRequest{Prompt: "p", Width: -100, Height: 100}
		assert.Error(t, req.Validate())
	})

	t.Run("プロンプト必須であること", func(t *testing.T) {
		assert.Error(t, ImageGenerationRequest{}.Validate())
	})
}
