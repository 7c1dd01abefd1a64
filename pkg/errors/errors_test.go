package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "tile size must be positive, got %d", -1)

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidConfig)
	}
	if err.Message != "tile size must be positive, got -1" {
		t.Errorf("Message = %q", err.Message)
	}
	if !strings.Contains(err.Error(), "INVALID_CONFIG") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("no such file")
	err := Wrap(ErrCodeCatalogRead, cause, "read inventory %s", "inv.json")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if got := err.Error(); !strings.Contains(got, "no such file") {
		t.Errorf("Error() = %q, want cause included", got)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeAssetMissing, "cover not found")
	wrapped := fmt.Errorf("record r-17: %w", err)

	if !Is(wrapped, ErrCodeAssetMissing) {
		t.Error("Is should find the code through wrapping")
	}
	if Is(wrapped, ErrCodeRenderFailed) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeAssetMissing) {
		t.Error("Is should not match a plain error")
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid config", New(ErrCodeInvalidConfig, "bad mode"), true},
		{"catalog read", New(ErrCodeCatalogRead, "unreachable"), true},
		{"asset missing", New(ErrCodeAssetMissing, "gone"), false},
		{"render failed", New(ErrCodeRenderFailed, "disk full"), false},
		{"plain error", fmt.Errorf("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeRenderFailed, "page 3 failed")
	if got := UserMessage(err); got != "page 3 failed" {
		t.Errorf("UserMessage = %q, want message without code", got)
	}
	plain := fmt.Errorf("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "x")); got != ErrCodeNotFound {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeNotFound)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}
