package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/ksef-middleware/pkg/app/errors"
	apphttp "github.com/chainsafe/ksef-middleware/pkg/app/http"
	"github.com/chainsafe/ksef-middleware/pkg/incoming"
)

const maxRequestBody = 1 << 16

// HTTP wraps the Coordinator to provide HTTP endpoints
type HTTP struct {
	coordinator Coordinator
	logger      *zap.Logger
}

// RegisterRoutes registers the incoming sync endpoints on the given chi router
func RegisterRoutes(r chi.Router, coordinator Coordinator, logger *zap.Logger) {
	h := &HTTP{
		coordinator: coordinator,
		logger:      logger,
	}

	r.Route("/incoming", func(r chi.Router) {
		r.Post("/fetch", apphttp.HandleError(h.initFetch))
		r.Get("/fetch", apphttp.HandleError(h.checkFetch))
		r.Post("/fetch/reset", apphttp.HandleError(h.resetFetch))
		r.Post("/fetch/ack", apphttp.HandleError(h.acknowledge))
		r.Get("/sync-state", apphttp.HandleError(h.syncState))
		r.Post("/sync-state/rollback", apphttp.HandleError(h.rollback))
		r.Get("/invoices", apphttp.HandleError(h.list))
		r.Post("/invoices/{id}/import-status", apphttp.HandleError(h.markImported))
	})
}

func (h *HTTP) initFetch(w http.ResponseWriter, r *http.Request) error {
	return writeResult(w, r, h.coordinator.InitIncomingFetch)
}

func (h *HTTP) checkFetch(w http.ResponseWriter, r *http.Request) error {
	return writeResult(w, r, h.coordinator.CheckIncomingFetchStatus)
}

func (h *HTTP) resetFetch(w http.ResponseWriter, r *http.Request) error {
	return writeResult(w, r, h.coordinator.ResetIncomingFetch)
}

func (h *HTTP) acknowledge(w http.ResponseWriter, r *http.Request) error {
	return writeResult(w, r, h.coordinator.AcknowledgeIncomingFetch)
}

func writeResult(w http.ResponseWriter, r *http.Request, op func(context.Context) (*FetchResult, error)) error {
	res, err := op(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, res)
	return nil
}

type rollbackRequest struct {
	DaysBack int `json:"days_back"`
}

func (h *HTTP) rollback(w http.ResponseWriter, r *http.Request) error {
	var req rollbackRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	res, err := h.coordinator.ResetIncomingSyncState(r.Context(), req.DaysBack)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, res)
	return nil
}

func (h *HTTP) syncState(w http.ResponseWriter, r *http.Request) error {
	state, err := h.coordinator.SyncState(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, state)
	return nil
}

func (h *HTTP) list(w http.ResponseWriter, r *http.Request) error {
	filter, err := parseListFilter(r)
	if err != nil {
		return err
	}
	invoices, err := h.coordinator.ListIncoming(r.Context(), filter)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, invoices)
	return nil
}

type importStatusRequest struct {
	Status     string `json:"status"`
	DocumentID *int64 `json:"document_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (h *HTTP) markImported(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.BadRequestError(err, "invalid incoming invoice ID")
	}

	var req importStatusRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	status, err := incoming.ParseImportStatus(req.Status)
	if err != nil {
		return apperrors.BadRequestError(err, "invalid import status")
	}

	inv, err := h.coordinator.MarkImported(r.Context(), id, status, req.DocumentID, req.Error)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, inv)
	return nil
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

func parseListFilter(r *http.Request) (incoming.ListFilter, error) {
	q := r.URL.Query()
	var (
		filter incoming.ListFilter
		err    error
	)

	if s := q.Get("status"); s != "" {
		if filter.Status, err = incoming.ParseImportStatus(s); err != nil {
			return filter, apperrors.BadRequestError(err, "invalid status")
		}
	}
	filter.SellerNIP = q.Get("seller_nip")

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		s := q.Get(p.name)
		if s == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, apperrors.BadRequestError(err, "invalid "+p.name+" date, expected YYYY-MM-DD")
		}
		*p.dst = &t
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &filter.Limit}, {"offset", &filter.Offset}} {
		s := q.Get(p.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return filter, apperrors.BadRequestError(err, "invalid "+p.name)
		}
		*p.dst = n
	}
	return filter, nil
}
