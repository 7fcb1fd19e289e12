package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantCode      types.ErrorCode
		wantRetryable bool
	}{
		{
			name:          "authentication failure",
			err:           errors.New("401 unauthorized: invalid api key"),
			wantCode:      ErrProviderUnauthorized,
			wantRetryable: false,
		},
		{
			name:          "rate limit",
			err:           errors.New("429 too many requests"),
			wantCode:      ErrProviderRateLimited,
			wantRetryable: true,
		},
		{
			name:          "timeout",
			err:           errors.New("context deadline exceeded"),
			wantCode:      ErrTimeoutExceeded,
			wantRetryable: true,
		},
		{
			name:          "network failure",
			err:           errors.New("connection refused"),
			wantCode:      ErrNetworkFailed,
			wantRetryable: true,
		},
		{
			name:          "model not found",
			err:           errors.New("model not found"),
			wantCode:      ErrProviderNotFound,
			wantRetryable: false,
		},
		{
			name:          "unknown error",
			err:           errors.New("something unexpected"),
			wantCode:      ErrProviderUnavailable,
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			translated := TranslateError("anthropic", tt.err)
			require.Error(t, translated)

			assert.Equal(t, tt.wantCode, types.CodeOf(translated))
			assert.Equal(t, tt.wantRetryable, IsRetryable(translated))
		})
	}
}

func TestTranslateError_Nil(t *testing.T) {
	assert.NoError(t, TranslateError("openai", nil))
}

func TestTranslateError_PassesThroughCodedErrors(t *testing.T) {
	original := NewRateLimitError("openai")
	translated := TranslateError("openai", original)
	assert.Same(t, original, translated)
}

func TestIsRetryable_ByCode(t *testing.T) {
	assert.True(t, IsRetryable(types.NewError(ErrNetworkFailed, "net down")))
	assert.True(t, IsRetryable(types.NewError(ErrProviderUnavailable, "down")))
	assert.False(t, IsRetryable(types.NewError(ErrInvalidRequest, "bad temp")))
	assert.False(t, IsRetryable(errors.New("plain error")))
}
