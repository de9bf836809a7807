package recipe

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/socialchef/creativechef/internal/errors"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.New("Gemini API error (status 429): RESOURCE_EXHAUSTED"), ErrorClassRateLimit},
		{errors.New("Too Many Requests"), ErrorClassRateLimit},
		{errors.New("Groq API error (status 402): pay up"), ErrorClassCreditExhausted},
		{errors.New("Insufficient credits on account"), ErrorClassCreditExhausted},
		{errors.New("OpenAI API error (status 503): overloaded"), ErrorClassServer},
		{fmt.Errorf("call: %w", context.DeadlineExceeded), ErrorClassServer},
		{errors.New("Cerebras API error (status 401): bad key"), ErrorClassClient},
		{errors.New("Gemini blocked the prompt: SAFETY"), ErrorClassClient},
		{apperrors.NewUnavailableError("down", "DOWN"), ErrorClassServer},
		{apperrors.NewValidationError("bad", "BAD", ""), ErrorClassClient},
		{errors.New("something odd"), ErrorClassUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			pe := ClassifyError(tt.err, "gemini")
			assert.Equal(t, tt.want, pe.Type)
			assert.Equal(t, "gemini", pe.Provider)
			assert.Equal(t, tt.err.Error(), pe.Error())
		})
	}
}

func TestClassifyErrorNil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil, "gemini"))
}

func TestShouldFallback(t *testing.T) {
	assert.True(t, ShouldFallback(errors.New("status 429")))
	assert.True(t, ShouldFallback(errors.New("billing hard limit reached")))
	assert.True(t, ShouldFallback(errors.New("status 500")))
	assert.False(t, ShouldFallback(errors.New("status 400")))
	assert.False(t, ShouldFallback(errors.New("random")))
	assert.False(t, ShouldFallback(nil))
}
