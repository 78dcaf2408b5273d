package handler

import (
	"log/slog"
	"lunchly/internal/api/handler/dto"
	"lunchly/internal/domain/customer"
	"lunchly/internal/web"
	"net/http"
)

type CustomerHandler struct {
	service  customer.CustomerService
	renderer web.Renderer
	logger   *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, renderer web.Renderer, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if renderer == nil {
		panic("renderer cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service:  s,
		renderer: renderer,
		logger:   l.With("component", "CustomerHandler"),
	}
}

func (h *CustomerHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, h.renderer, h.logger, err)
}

// ListOrSearch handles GET /. A search query parameter switches the page to
// search results, even when the term is empty.
func (h *CustomerHandler) ListOrSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Has("search") {
		term := query.Get("search")
		h.logger.DebugContext(r.Context(), "Received search customers request", slog.String("term", term))

		customers, err := h.service.Search(r.Context(), term)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		render(w, r, h.renderer, h.logger, "search.html", map[string]any{"customers": customers})
		return
	}

	h.logger.DebugContext(r.Context(), "Received list customers request")
	customers, err := h.service.ListAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, h.renderer, h.logger, "customer_list.html", map[string]any{"customers": customers})
}

// TopTen handles GET /top-ten/
func (h *CustomerHandler) TopTen(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.TopTen(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, h.renderer, h.logger, "top-ten.html", map[string]any{"customers": customers})
}

// NewForm handles GET /add/
func (h *CustomerHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.renderer, h.logger, "customer_new_form.html", map[string]any{})
}

// Create handles POST /add/
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CustomerForm
	values, err := decodeBody(w, r, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if values != nil {
		req = dto.CustomerFormFromValues(values)
	}

	created, err := h.service.Create(r.Context(), req.Details())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.Int64("customerID", created.ID()))
	redirectToCustomer(w, r, created.ID())
}

// Detail handles GET /{id}/
func (h *CustomerHandler) Detail(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cust, err := h.service.GetByID(r.Context(), customerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	reservations, err := h.service.GetReservations(r.Context(), cust)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render(w, r, h.renderer, h.logger, "customer_detail.html", map[string]any{
		"customer":     cust,
		"reservations": reservations,
	})
}

// EditForm handles GET /{id}/edit/
func (h *CustomerHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cust, err := h.service.GetByID(r.Context(), customerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, h.renderer, h.logger, "customer_edit_form.html", map[string]any{"customer": cust})
}

// Update handles POST /{id}/edit/. All four editable fields are overwritten.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.CustomerForm
	values, err := decodeBody(w, r, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if values != nil {
		req = dto.CustomerFormFromValues(values)
	}

	updated, err := h.service.Update(r.Context(), customerID, req.Details())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer updated successfully", slog.Int64("customerID", updated.ID()))
	redirectToCustomer(w, r, updated.ID())
}
