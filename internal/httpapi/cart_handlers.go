package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/preference"
	"go.uber.org/zap"
)

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	store := sessionFrom(r).Cart
	resp := mapCart(store)

	code := r.URL.Query().Get("promotion_code")
	if code == "" || store.Len() == 0 {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	promotion, err := s.catalog.PromotionByCode(r.Context(), code)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	discount, err := promotion.Discount(store.Cart(), s.now())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	d := mapMoney(discount)
	resp.Discount = &d
	resp.PromotionCode = promotion.Code

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product, err := s.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var variant *domain.ProductVariant
	if req.VariantID != nil {
		v, ok := product.FindVariant(*req.VariantID)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "variant not found")
			return
		}
		variant = &v
	}

	store := sessionFrom(r).Cart
	if err := store.AddItem(r.Context(), product, quantity, variant); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCart(store))
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "productID")
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	store := sessionFrom(r).Cart
	if err := store.UpdateQuantity(r.Context(), productID, req.Quantity, req.VariantID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCart(store))
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "productID")
	if !ok {
		return
	}

	var variantID *uuid.UUID
	if raw := r.URL.Query().Get("variant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_variant_id", err.Error())
			return
		}
		variantID = &id
	}

	store := sessionFrom(r).Cart
	removed, err := store.RemoveItem(r.Context(), productID, variantID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "not_found", "item is not in the cart")
		return
	}

	writeJSON(w, http.StatusOK, mapCart(store))
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := sessionFrom(r).Cart.Clear(r.Context()); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess := sessionFrom(r)
	receipt, err := sess.Checkout.Submit(r.Context(), checkout.Request{
		Phone:   req.Phone,
		Address: req.Address,
		Email:   req.Email,
		Notes:   req.Notes,
	})
	if err != nil {
		if domain.IsValidation(err) || isConflict(err) {
			s.writeDomainError(w, r, err)
			return
		}

		s.logger.Error("checkout failed", zap.String("session_id", sess.ID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "order_failed", "Failed to create order. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, CheckoutResponse{
		OrderID:     receipt.OrderID,
		OrderNumber: receipt.OrderNumber,
		Message:     receipt.Message,
		Link:        receipt.Link,
		Notice:      receipt.Notice,
		Total:       mapMoney(receipt.Total),
	})
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := sessionFrom(r).Themes.Get(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ThemeDTO{Theme: string(theme)})
}

func (s *Server) setTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	theme, err := preference.ParseTheme(req.Theme)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := sessionFrom(r).Themes.Set(r.Context(), theme); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ThemeDTO{Theme: string(theme)})
}
