package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/DjordjeVuckovic/embed-service/internal/apperr"
	"github.com/labstack/echo/v4"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("field is required")

	if err.Error() != "field is required" {
		t.Errorf("expected 'field is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("unexpected EOF")
	err := apperr.NewValidationWrap("malformed request", inner)

	if err.Error() != "malformed request: unexpected EOF" {
		t.Errorf("expected 'malformed request: unexpected EOF', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("'texts' must be a non-empty array")

	wrapped := fmt.Errorf("parse encode request: %w", original)
	doubleWrapped := fmt.Errorf("handler: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "'texts' must be a non-empty array" {
		t.Errorf("unexpected message %q", ve.Message)
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("runtime connection refused")
	wrapped := fmt.Errorf("encode: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}

func TestIsNotReady(t *testing.T) {
	if !apperr.IsNotReady(fmt.Errorf("encode: %w", apperr.ErrNotReady)) {
		t.Error("expected wrapped ErrNotReady to be detected")
	}
	if apperr.IsNotReady(errors.New("boom")) {
		t.Error("plain error must not be reported as not ready")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apperr.NewValidation("bad"), http.StatusBadRequest, "bad"},
		{"not ready", apperr.ErrNotReady, http.StatusInternalServerError, "model not loaded"},
		{"internal", apperr.NewInternal(errors.New("tensor shape mismatch")), http.StatusInternalServerError, "tensor shape mismatch"},
		{"echo http error", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"), http.StatusRequestEntityTooLarge, "Request Entity Too Large"},
		{"plain", errors.New("context canceled"), http.StatusInternalServerError, "context canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := apperr.Resolve(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if body.Error != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Error, tt.wantMsg)
			}
		})
	}
}
