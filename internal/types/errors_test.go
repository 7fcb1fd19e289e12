package types

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorCode_Constants(t *testing.T) {
	tests := []struct {
		name     string
		code     ErrorCode
		expected string
	}{
		{"CONFIG_LOAD_FAILED", CONFIG_LOAD_FAILED, "CONFIG_LOAD_FAILED"},
		{"CONFIG_PARSE_FAILED", CONFIG_PARSE_FAILED, "CONFIG_PARSE_FAILED"},
		{"CONFIG_VALIDATION_FAILED", CONFIG_VALIDATION_FAILED, "CONFIG_VALIDATION_FAILED"},
		{"CONFIG_NOT_FOUND", CONFIG_NOT_FOUND, "CONFIG_NOT_FOUND"},
		{"CAMPAIGN_INVALID", CAMPAIGN_INVALID, "CAMPAIGN_INVALID"},
		{"CAMPAIGN_STATE_INVALID", CAMPAIGN_STATE_INVALID, "CAMPAIGN_STATE_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.code) != tt.expected {
				t.Errorf("ErrorCode = %v, want %v", tt.code, tt.expected)
			}
		})
	}
}

func TestContentGenError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ContentGenError
		contains []string
	}{
		{
			name: "simple error without cause",
			err:  NewError(CONFIG_LOAD_FAILED, "failed to load configuration"),
			contains: []string{
				"[CONFIG_LOAD_FAILED]",
				"failed to load configuration",
			},
		},
		{
			name: "error with cause",
			err:  WrapError(CAMPAIGN_STATE_INVALID, "state rejected", errors.New("missing goal")),
			contains: []string{
				"[CAMPAIGN_STATE_INVALID]",
				"state rejected",
				"missing goal",
			},
		},
		{
			name: "retryable error",
			err:  NewRetryableError(CONFIG_NOT_FOUND, "config file not found"),
			contains: []string{
				"[CONFIG_NOT_FOUND]",
				"config file not found",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			for _, substring := range tt.contains {
				if !strings.Contains(errMsg, substring) {
					t.Errorf("Error() = %v, want to contain %v", errMsg, substring)
				}
			}
		})
	}
}

func TestContentGenError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := WrapError(CAMPAIGN_INVALID, "invalid campaign", cause)

	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if unwrapped := errors.Unwrap(wrapped); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	plain := NewError(CONFIG_PARSE_FAILED, "parse error")
	if errors.Unwrap(plain) != nil {
		t.Error("Unwrap() on an error without cause should return nil")
	}
}

func TestContentGenError_Is_MatchesByCode(t *testing.T) {
	base := NewError(CONFIG_VALIDATION_FAILED, "one message")
	other := NewError(CONFIG_VALIDATION_FAILED, "a different message")
	different := NewError(CONFIG_LOAD_FAILED, "one message")

	if !errors.Is(base, other) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(base, different) {
		t.Error("errors with different codes should not match")
	}
}

func TestContentGenError_Is_ThroughWrapping(t *testing.T) {
	inner := NewError(CAMPAIGN_STATE_INVALID, "bad scratchpad")
	outer := fmt.Errorf("running campaign: %w", inner)

	if !errors.Is(outer, NewError(CAMPAIGN_STATE_INVALID, "")) {
		t.Error("code match should survive fmt.Errorf wrapping")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"direct", NewError(CONFIG_NOT_FOUND, "missing"), CONFIG_NOT_FOUND},
		{"wrapped", fmt.Errorf("outer: %w", NewError(CAMPAIGN_INVALID, "bad")), CAMPAIGN_INVALID},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(NewError(CONFIG_LOAD_FAILED, "nope")) {
		t.Error("NewError should produce a non-retryable error")
	}
	if !IsRetryable(NewRetryableError(CONFIG_LOAD_FAILED, "transient")) {
		t.Error("NewRetryableError should produce a retryable error")
	}
	if !IsRetryable(fmt.Errorf("outer: %w", WrapRetryableError(CONFIG_LOAD_FAILED, "transient", errors.New("io")))) {
		t.Error("retryability should survive wrapping")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
}
