package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestConstructorCategories(t *testing.T) {
	testCases := []struct {
		name        string
		err         *ThemeError
		category    ErrorCategory
		severity    ErrorSeverity
		recoverable bool
	}{
		{"validation", ValidationError("BAD_ACCENT", "invalid accent color"), ErrorValidation, SeverityMedium, false},
		{"bridge", BridgeError("BASE_WRITE_FAILED", "base style write failed"), ErrorBridge, SeverityLow, true},
		{"platform", PlatformError("DWM_CAPTION_REJECTED", "DwmSetWindowAttribute failed"), ErrorPlatform, SeverityLow, true},
		{"config", ConfigError("SETTINGS_READ", "cannot read settings file"), ErrorConfig, SeverityHigh, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.err.IsCategory(tc.category) {
				t.Errorf("category = %s, want %s", tc.err.Category, tc.category)
			}
			if tc.err.Severity != tc.severity {
				t.Errorf("severity = %s, want %s", tc.err.Severity, tc.severity)
			}
			if tc.err.Recoverable != tc.recoverable {
				t.Errorf("recoverable = %v, want %v", tc.err.Recoverable, tc.recoverable)
			}
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := PlatformError("DWM_CAPTION_REJECTED", "DwmSetWindowAttribute failed").
		WithDetails("HRESULT 0x80070057")
	want := "[platform:DWM_CAPTION_REJECTED] DwmSetWindowAttribute failed: HRESULT 0x80070057"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := BridgeError("NODE_READ", "node color read failed")
	if got := bare.Error(); got != "[bridge:NODE_READ] node color read failed" {
		t.Errorf("Error() without details = %q", got)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := fmt.Errorf("schema rejected value")
	err := BridgeError("BASE_WRITE_FAILED", "base style write failed").WithCause(cause)
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not reachable through errors.Is")
	}
}

func TestIsMatchesCategoryAndCode(t *testing.T) {
	err := ValidationError("BAD_ACCENT", "invalid accent color")
	if !stderrors.Is(err, ValidationError("BAD_ACCENT", "different message")) {
		t.Error("same category and code should match")
	}
	if stderrors.Is(err, ValidationError("BAD_BACKGROUND", "invalid background color")) {
		t.Error("different code must not match")
	}
	if !err.IsCode("BAD_ACCENT") {
		t.Error("IsCode failed for matching code")
	}
}
