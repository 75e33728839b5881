package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidate_Binary(t *testing.T) {
	v := NewValidator()

	err := v.Validate(WriteState, map[string]any{
		"binary": strings.Repeat("01", 16),
	})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidate_ShortHex(t *testing.T) {
	v := NewValidator()

	err := v.Validate(WriteState, map[string]any{
		"hex": "1f",
	})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidate_Channels(t *testing.T) {
	v := NewValidator()

	err := v.Validate(WriteState, map[string]any{
		"channels": make([]bool, 32),
	})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidate_ShortBinary(t *testing.T) {
	v := NewValidator()

	err := v.Validate(WriteState, map[string]any{
		"binary": strings.Repeat("1", 31),
	})
	if err == nil {
		t.Error("expected validation error for 31-character binary")
	}
}

func TestValidate_WrongChannelCount(t *testing.T) {
	v := NewValidator()

	err := v.Validate(WriteState, map[string]any{
		"channels": make([]bool, 8),
	})
	if err == nil {
		t.Error("expected validation error for 8 channels")
	}
}

func TestValidate_TwoEncodings(t *testing.T) {
	v := NewValidator()

	err := v.Validate(WriteState, map[string]any{
		"binary": strings.Repeat("0", 32),
		"hex":    "00000000",
	})
	if err == nil {
		t.Error("expected validation error when both binary and hex are given")
	}
}

func TestValidate_UnknownProperty(t *testing.T) {
	v := NewValidator()

	err := v.Validate(WriteState, map[string]any{
		"hex":     "ff",
		"unknown": "value",
	})
	if err == nil {
		t.Error("expected validation error for unknown property")
	}
}

func TestValidate_SetChannel(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(SetChannel, map[string]any{"on": true}); err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
	if err := v.Validate(SetChannel, map[string]any{"on": "yes"}); err == nil {
		t.Error("expected validation error for non-boolean on")
	}
	if err := v.Validate(SetChannel, map[string]any{}); err == nil {
		t.Error("expected validation error for missing on")
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	v := NewValidator()

	err := v.Validate(json.RawMessage(`{}`), map[string]any{
		"anything": "goes",
	})
	if err != nil {
		t.Errorf("empty schema should skip validation, got: %v", err)
	}
}

func TestValidate_CachesSchema(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(WriteState, map[string]any{"hex": "ff"}); err != nil {
		t.Fatal(err)
	}
	if err := v.Validate(WriteState, map[string]any{"hex": "00"}); err != nil {
		t.Fatal(err)
	}

	v.mu.RLock()
	cacheSize := len(v.cache)
	v.mu.RUnlock()
	if cacheSize != 1 {
		t.Errorf("expected 1 cached schema, got %d", cacheSize)
	}
}
