package reports

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopledger/shopledger/internal/platform/httpx"
)

// StoredResult is a finished background render ready for download.
type StoredResult struct {
	Filename string
	PDF      []byte
}

// Enqueuer hands a render off to the background queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, resultID, from, to string) error
}

// ResultGetter fetches a finished background render.
type ResultGetter interface {
	Get(ctx context.Context, id string) (StoredResult, bool, error)
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	enqueuer Enqueuer
	results  ResultGetter
}

func NewHandler(logger *slog.Logger, service *Service, enqueuer Enqueuer, results ResultGetter) *Handler {
	return &Handler{logger: logger, service: service, enqueuer: enqueuer, results: results}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/sales", h.Download)
	r.Post("/sales/async", h.EnqueueRender)
	r.Get("/sales/async/{id}", h.FetchResult)
	return r
}

// Download renders the report inline on the request path.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid window", err.Error())
		return
	}
	generated, err := h.service.Generate(r.Context(), from, to)
	if err != nil {
		h.logger.Error("generate report", "error", err)
		httpx.Problem(w, http.StatusBadGateway, "Report failed", "the report could not be rendered")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+generated.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(generated.PDF)
}

// EnqueueRender queues the render and returns a result id to poll.
func (h *Handler) EnqueueRender(w http.ResponseWriter, r *http.Request) {
	if h.enqueuer == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue unavailable", "background rendering is not configured")
		return
	}
	if _, _, err := parseWindow(r); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid window", err.Error())
		return
	}
	resultID := uuid.NewString()
	if err := h.enqueuer.Enqueue(r.Context(), resultID, r.URL.Query().Get("from"), r.URL.Query().Get("to")); err != nil {
		h.logger.Error("enqueue report", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"result_id": resultID})
}

// FetchResult returns the rendered PDF once the background job finished.
func (h *Handler) FetchResult(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue unavailable", "background rendering is not configured")
		return
	}
	id := chi.URLParam(r, "id")
	result, ok, err := h.results.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !ok {
		httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.PDF)
}

func parseWindow(r *http.Request) (*time.Time, *time.Time, error) {
	q := r.URL.Query()
	var from, to *time.Time
	for name, dst := range map[string]**time.Time{"from": &from, "to": &to} {
		if raw := q.Get(name); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return nil, nil, errors.New(name + " must be YYYY-MM-DD")
			}
			*dst = &t
		}
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, errors.New("to must not precede from")
	}
	// Both bounds or neither; a single bound is ambiguous.
	if (from == nil) != (to == nil) {
		return nil, nil, errors.New("provide both from and to, or neither")
	}
	return from, to, nil
}
