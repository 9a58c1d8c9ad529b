package purchases

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopledger/shopledger/internal/ledger"
	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/receive", h.Receive)
	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	items, total, agg, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list purchases", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
		"aggregates": agg,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	p, err := h.service.Create(r.Context(), operator(r), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.Update(r.Context(), operator(r), id, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), operator(r), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type selectionRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	result, err := h.service.Receive(r.Context(), operator(r), req.IDs)
	if err != nil {
		RespondLedgerError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

// RespondLedgerError maps stock ledger failures onto problem responses.
// Shared by the sale and return handlers as well.
func RespondLedgerError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotPermitted):
		httpx.Problem(w, http.StatusForbidden, "Not permitted", "this action requires an elevated account")
	case errors.Is(err, ledger.ErrNothingSelected):
		httpx.Problem(w, http.StatusBadRequest, "Nothing selected", "select at least one pending row")
	case errors.Is(err, ledger.ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient stock", err.Error())
	case errors.Is(err, ledger.ErrStockNotFound):
		httpx.Problem(w, http.StatusConflict, "Unknown stock", err.Error())
	default:
		logger.Error("ledger action", "error", err)
		httpx.RespondError(w, err)
	}
}

func parseFilters(r *http.Request) (ListFilters, error) {
	q := r.URL.Query()
	filters := ListFilters{Search: q.Get("search")}

	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filters, errors.New("category_id must be an integer")
		}
		filters.CategoryID = &id
	}
	if raw := q.Get("received"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filters, errors.New("received must be a boolean")
		}
		filters.Received = &v
	}
	for name, dst := range map[string]**time.Time{"from": &filters.From, "to": &filters.To} {
		if raw := q.Get(name); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return filters, errors.New(name + " must be YYYY-MM-DD")
			}
			*dst = &t
		}
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.Limit, _ = strconv.Atoi(q.Get("limit"))
	return filters, nil
}

func operator(r *http.Request) shared.Operator {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return shared.Operator{}
	}
	return shared.OperatorFromSession(sess)
}
