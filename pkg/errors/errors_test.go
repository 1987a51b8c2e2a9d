package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidVariant, "unknown variant: %s", "kiosk")

	if err.Code != ErrCodeInvalidVariant {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidVariant)
	}
	if err.Message != "unknown variant: kiosk" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown variant: kiosk")
	}
	expected := "INVALID_VARIANT: unknown variant: kiosk"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeDatabase, cause, "connect tenant-42")

	if err.Code != ErrCodeDatabase {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDatabase)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeTenantNotFound, "x"), ErrCodeTenantNotFound, true},
		{"non-matching code", New(ErrCodeTenantNotFound, "x"), ErrCodeDatabase, false},
		{"outer code wins", Wrap(ErrCodeOutput, New(ErrCodeConfig, "inner"), "outer"), ErrCodeOutput, true},
		{"non-Error type", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeNoRecords, "x"), ErrCodeNoRecords},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"with cause", Wrap(ErrCodeOutput, errors.New("disk full"), "write pdf"), "write pdf: disk full"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFatal(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeOutput, "x"), true},
		{New(ErrCodeInternal, "x"), true},
		{New(ErrCodeAssetMissing, "x"), false},
		{New(ErrCodeRender, "x"), false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := Fatal(tt.err); got != tt.want {
			t.Errorf("Fatal(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
