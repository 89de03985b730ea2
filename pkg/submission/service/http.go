package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/ksef-middleware/pkg/app/errors"
	apphttp "github.com/chainsafe/ksef-middleware/pkg/app/http"
	"github.com/chainsafe/ksef-middleware/pkg/submission"
)

// maxInvoiceBody leaves headroom over the 1 MiB document cap for base64 and JSON framing.
const maxInvoiceBody = 2 << 20

// HTTP wraps the Engine to provide HTTP endpoints
type HTTP struct {
	engine Engine
	logger *zap.Logger
}

// RegisterRoutes registers the submission endpoints on the given chi router
func RegisterRoutes(r chi.Router, engine Engine, logger *zap.Logger) {
	h := &HTTP{
		engine: engine,
		logger: logger,
	}

	r.Route("/invoices/{invoiceID}", func(r chi.Router) {
		r.Post("/submit", apphttp.HandleError(h.lifecycle(engine.Submit)))
		r.Post("/retry", apphttp.HandleError(h.lifecycle(engine.Retry)))
		r.Post("/offline", apphttp.HandleError(h.lifecycle(engine.RegisterOffline)))
		r.Get("/submissions", apphttp.HandleError(h.history))
		r.Get("/submissions/latest", apphttp.HandleError(h.latest))
	})

	r.Route("/submissions", func(r chi.Router) {
		r.Get("/attention", apphttp.HandleError(h.attention))
		r.Get("/statistics", apphttp.HandleError(h.statistics))
		r.Post("/{id}/check", apphttp.HandleError(h.check))
		r.Get("/{id}/verification-url", apphttp.HandleError(h.verificationURL))
		r.Get("/{id}/upo", apphttp.HandleError(h.upo))
	})
}

type lifecycleFunc func(ctx context.Context, inv *submission.Invoice) (*Result, error)

// lifecycle decodes the invoice body and runs op. The path invoice ID wins over the body.
func (h *HTTP) lifecycle(op lifecycleFunc) apphttp.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		invoiceID, err := pathInvoiceID(r)
		if err != nil {
			return err
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxInvoiceBody))
		if err != nil {
			return apperrors.BadRequestError(err, "failed to read request")
		}
		var inv submission.Invoice
		if err := json.Unmarshal(body, &inv); err != nil {
			return apperrors.BadRequestError(err, "invalid JSON")
		}
		inv.ID = invoiceID

		res, err := op(r.Context(), &inv)
		if err != nil {
			return err
		}
		apphttp.WriteJSON(w, http.StatusOK, res)
		return nil
	}
}

func (h *HTTP) history(w http.ResponseWriter, r *http.Request) error {
	invoiceID, err := pathInvoiceID(r)
	if err != nil {
		return err
	}
	subs, err := h.engine.History(r.Context(), invoiceID)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, subs)
	return nil
}

func (h *HTTP) latest(w http.ResponseWriter, r *http.Request) error {
	invoiceID, err := pathInvoiceID(r)
	if err != nil {
		return err
	}
	sub, err := h.engine.Latest(r.Context(), invoiceID)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, sub)
	return nil
}

func (h *HTTP) check(w http.ResponseWriter, r *http.Request) error {
	id, err := pathSubmissionID(r)
	if err != nil {
		return err
	}
	res, err := h.engine.CheckStatus(r.Context(), id)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, res)
	return nil
}

func (h *HTTP) verificationURL(w http.ResponseWriter, r *http.Request) error {
	id, err := pathSubmissionID(r)
	if err != nil {
		return err
	}
	u, err := h.engine.VerificationURL(r.Context(), id)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, map[string]string{"url": u})
	return nil
}

func (h *HTTP) upo(w http.ResponseWriter, r *http.Request) error {
	id, err := pathSubmissionID(r)
	if err != nil {
		return err
	}
	upo, err := h.engine.DownloadUPO(r.Context(), id)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="upo-`+id.String()+`.xml"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(upo); err != nil {
		h.logger.Warn("failed to write UPO", zap.Error(err))
	}
	return nil
}

func (h *HTTP) attention(w http.ResponseWriter, r *http.Request) error {
	subs, err := h.engine.NeedsAttention(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, subs)
	return nil
}

func (h *HTTP) statistics(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.engine.Statistics(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, stats)
	return nil
}

func pathInvoiceID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "invoiceID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequestError(err, "invalid invoice ID")
	}
	return id, nil
}

func pathSubmissionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperrors.BadRequestError(err, "invalid submission ID")
	}
	return id, nil
}
