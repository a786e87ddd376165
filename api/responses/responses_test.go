package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/marisolvega/skinroutine-backend/pkg/errors"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message string, details map[string]any) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Error.Code, envelope.Error.Message, envelope.Error.Details
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["status"] != "ok" {
		t.Fatalf("unexpected data %v", envelope.Data)
	}
}

func TestWriteErrorClientCodeKeepsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeConflict, "a morning step for \"Toner\" already exists"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	code, message, _ := decodeError(t, rec)
	if code != string(pkgerrors.CodeConflict) {
		t.Fatalf("unexpected code %q", code)
	}
	if message != "a morning step for \"Toner\" already exists" {
		t.Fatalf("client message replaced: %q", message)
	}
}

func TestWriteErrorServerCodeStaysGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	cause := errors.New("duplicate rows for slot 3")
	WriteError(context.Background(), nil, rec, pkgerrors.Wrap(pkgerrors.CodeConsistency, cause, "saved data violates slot uniqueness"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	code, message, _ := decodeError(t, rec)
	if code != string(pkgerrors.CodeConsistency) {
		t.Fatalf("unexpected code %q", code)
	}
	if message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", message)
	}
}

func TestWriteErrorValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"time_of_day": "must be one of: morning night"})
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	_, _, details := decodeError(t, rec)
	if details["time_of_day"] != "must be one of: morning night" {
		t.Fatalf("details not surfaced: %v", details)
	}
}

func TestWriteErrorConflictDropsDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeConflict, "conflict detected").
		WithDetails(map[string]string{"constraint": "steps_owner_slot_unique"})
	WriteError(context.Background(), nil, rec, err)

	_, _, details := decodeError(t, rec)
	if details != nil {
		t.Fatalf("conflict details must not be exposed: %v", details)
	}
}

func TestWriteErrorUntypedError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	code, message, _ := decodeError(t, rec)
	if code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %q", code)
	}
	if message != "internal server error" {
		t.Fatalf("raw error leaked: %q", message)
	}
}

func TestWriteErrorNilError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}
