package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

const defaultOrderLimit = 50

func (s *Server) adminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.AllProducts(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapProducts(products))
}

func (s *Server) adminGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	product, err := s.catalog.AdminProduct(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapProduct(product))
}

func (s *Server) adminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := s.catalog.CreateProduct(r.Context(), req.toDomain(uuid.Nil, s.currency))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (s *Server) adminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.catalog.UpdateProduct(r.Context(), req.toDomain(id, s.currency)); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.catalog.DeleteProduct(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminAddVariant(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req VariantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := s.catalog.AddVariant(r.Context(), req.toDomain(productID, s.currency))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (s *Server) adminRefresh(w http.ResponseWriter, _ *http.Request) {
	s.catalog.Refresh()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) adminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := s.catalog.CreateCategory(r.Context(), req.toDomain())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (s *Server) adminCreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req PromotionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	promotion, err := req.toDomain(s.currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_promotion", err.Error())
		return
	}

	id, err := s.catalog.CreatePromotion(r.Context(), promotion)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (s *Server) adminListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.OrderFilter{Limit: defaultOrderLimit}

	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
			return
		}
		filter.Status = &status
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "invalid_limit", fmt.Sprintf("limit must be a positive integer, got %q", raw))
			return
		}
		filter.Limit = limit
	}

	orders, err := s.orders.ListOrders(r.Context(), filter)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrders(orders))
}

func (s *Server) adminGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	order, err := s.orders.GetOrder(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrder(order))
}

func (s *Server) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	updated, err := s.orders.UpdateOrderStatus(r.Context(), id, status)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminAnalytics(w http.ResponseWriter, r *http.Request) {
	from, ok := timeQuery(w, r, "from")
	if !ok {
		return
	}
	to, ok := timeQuery(w, r, "to")
	if !ok {
		return
	}

	analytics, err := s.orders.GetAnalytics(r.Context(), from, to)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapAnalytics(analytics))
}

func timeQuery(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, err.Error())
		return nil, false
	}
	return &t, true
}
