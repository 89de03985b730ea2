package service_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/ksef-middleware/pkg/app/errors"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/submission"
	"github.com/chainsafe/ksef-middleware/pkg/submission/service"
	"github.com/chainsafe/ksef-middleware/pkg/submission/service/mocks"
)

func newSubmissionTestServer(engine service.Engine) http.Handler {
	r := chi.NewRouter()
	service.RegisterRoutes(r, engine, zap.NewNop())
	return r
}

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var got errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	return got
}

func TestSubmitHTTP_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	engine := mocks.NewEngine(t)
	handler := newSubmissionTestServer(engine)

	req := httptest.NewRequest(http.MethodPost, "/invoices/42/submit", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeError(t, rec); got.Error != "invalid JSON" {
		t.Fatalf("expected error %q, got %q", "invalid JSON", got.Error)
	}
}

func TestSubmitHTTP_InvalidInvoiceID_ReturnsBadRequest(t *testing.T) {
	engine := mocks.NewEngine(t)
	handler := newSubmissionTestServer(engine)

	req := httptest.NewRequest(http.MethodPost, "/invoices/abc/submit", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeError(t, rec); got.Error != "invalid invoice ID" {
		t.Fatalf("expected error %q, got %q", "invalid invoice ID", got.Error)
	}
}

func TestSubmitHTTP_PathIDOverridesBody(t *testing.T) {
	engine := mocks.NewEngine(t)
	engine.EXPECT().
		Submit(mock.Anything, mock.MatchedBy(func(inv *submission.Invoice) bool {
			return inv.ID == 42 && inv.Number == "FV/1"
		})).
		Return(&service.Result{Status: submission.StatusSubmitted, Created: true}, nil).
		Once()
	handler := newSubmissionTestServer(engine)

	body := `{"invoice_id": 7, "invoice_number": "FV/1", "document": "PEZha3R1cmEvPg=="}`
	req := httptest.NewRequest(http.MethodPost, "/invoices/42/submit", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var got service.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if got.Status != submission.StatusSubmitted || !got.Created {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestSubmitHTTP_DomainErrorIsReturnedInBody(t *testing.T) {
	engine := mocks.NewEngine(t)
	engine.EXPECT().
		Retry(mock.Anything, mock.Anything).
		Return(&service.Result{
			Error: ksef.NewError(ksef.KindValidation, service.CodeNothingToRetry, "nothing to retry"),
		}, nil).
		Once()
	handler := newSubmissionTestServer(engine)

	req := httptest.NewRequest(http.MethodPost, "/invoices/9/retry", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got struct {
		Error struct {
			Kind string `json:"kind"`
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if got.Error.Kind != "ValidationError" || got.Error.Code != service.CodeNothingToRetry {
		t.Fatalf("unexpected error body: %+v", got.Error)
	}
}

func TestLatestHTTP_NotFound(t *testing.T) {
	engine := mocks.NewEngine(t)
	engine.EXPECT().
		Latest(mock.Anything, int64(5)).
		Return(nil, apperrors.ResourceNotFoundError(nil, "invoice has no submissions")).
		Once()
	handler := newSubmissionTestServer(engine)

	req := httptest.NewRequest(http.MethodGet, "/invoices/5/submissions/latest", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
	if got := decodeError(t, rec); got.Error != "invoice has no submissions" {
		t.Fatalf("expected error %q, got %q", "invoice has no submissions", got.Error)
	}
}

func TestCheckHTTP_InvalidSubmissionID(t *testing.T) {
	engine := mocks.NewEngine(t)
	handler := newSubmissionTestServer(engine)

	req := httptest.NewRequest(http.MethodPost, "/submissions/not-a-uuid/check", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeError(t, rec); got.Error != "invalid submission ID" {
		t.Fatalf("expected error %q, got %q", "invalid submission ID", got.Error)
	}
}

func TestVerificationURLHTTP(t *testing.T) {
	id := uuid.New()
	engine := mocks.NewEngine(t)
	engine.EXPECT().
		VerificationURL(mock.Anything, id).
		Return("https://qr-test.ksef.mf.gov.pl/invoice/5265877635/04-03-2025/abc", nil).
		Once()
	handler := newSubmissionTestServer(engine)

	req := httptest.NewRequest(http.MethodGet, "/submissions/"+id.String()+"/verification-url", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if got["url"] == "" {
		t.Fatalf("expected url in response, got %v", got)
	}
}

func TestUPOHTTP(t *testing.T) {
	id := uuid.New()
	engine := mocks.NewEngine(t)
	engine.EXPECT().DownloadUPO(mock.Anything, id).Return([]byte("<UPO/>"), nil).Once()
	handler := newSubmissionTestServer(engine)

	req := httptest.NewRequest(http.MethodGet, "/submissions/"+id.String()+"/upo", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Fatalf("expected application/xml, got %q", ct)
	}
	if rec.Body.String() != "<UPO/>" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestUPOHTTP_NotAccepted_ReturnsConflict(t *testing.T) {
	id := uuid.New()
	engine := mocks.NewEngine(t)
	engine.EXPECT().
		DownloadUPO(mock.Anything, id).
		Return(nil, apperrors.ConflictError(nil, "submission is SUBMITTED, not ACCEPTED")).
		Once()
	handler := newSubmissionTestServer(engine)

	req := httptest.NewRequest(http.MethodGet, "/submissions/"+id.String()+"/upo", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}
