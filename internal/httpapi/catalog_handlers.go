package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/catalog"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := catalog.Filter{Query: q.Get("q")}

	if raw := q.Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_category_id", err.Error())
			return
		}
		filter.CategoryID = &id
	}

	if raw := q.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_featured", err.Error())
			return
		}
		filter.FeaturedOnly = featured
	}

	products, err := s.catalog.Products(r.Context(), filter)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapProducts(products))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	product, err := s.catalog.Product(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapProduct(product))
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCategories(categories))
}

func (s *Server) listPromotions(w http.ResponseWriter, r *http.Request) {
	promotions, err := s.catalog.ActivePromotions(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	now := s.now()
	resp := make([]PromotionResponse, 0, len(promotions))
	for _, p := range promotions {
		resp = append(resp, mapPromotion(p, now))
	}

	writeJSON(w, http.StatusOK, resp)
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
