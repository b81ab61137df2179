package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/session"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// SessionHeader carries the client session id on every cart, checkout and preference call.
const SessionHeader = "X-Session-ID"

type Deps struct {
	Sessions   *session.Manager
	Catalog    *catalog.Service
	Orders     port.OrderRepository
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Currency   currency.Unit
	AdminToken string
	// AdminInsecure opens admin routes when AdminToken is empty. Without it they answer 503.
	AdminInsecure bool
	// Ready reports whether dependencies are reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

type Server struct {
	sessions   *session.Manager
	catalog    *catalog.Service
	orders     port.OrderRepository
	logger     *zap.Logger
	currency   currency.Unit
	adminToken string
	adminOpen  bool
	ready      func(ctx context.Context) error
	now        func() time.Time
}

type ctxKey struct{}

func NewRouter(d Deps) http.Handler {
	s := &Server{
		sessions:   d.Sessions,
		catalog:    d.Catalog,
		orders:     d.Orders,
		logger:     d.Logger,
		currency:   d.Currency,
		adminToken: d.AdminToken,
		adminOpen:  d.AdminInsecure,
		ready:      d.Ready,
		now:        time.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
		r.Handle("/metrics", d.Metrics.Handler())
	}

	r.Get("/healthz", s.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/categories", s.listCategories)
		r.Get("/promotions", s.listPromotions)

		r.Group(func(r chi.Router) {
			r.Use(s.withSession)

			r.Get("/cart", s.getCart)
			r.Post("/cart/items", s.addCartItem)
			r.Put("/cart/items/{productID}", s.updateCartItem)
			r.Delete("/cart/items/{productID}", s.removeCartItem)
			r.Delete("/cart", s.clearCart)

			r.Post("/checkout", s.checkout)

			r.Get("/preferences/theme", s.getTheme)
			r.Put("/preferences/theme", s.setTheme)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/products", s.adminListProducts)
			r.Post("/products", s.adminCreateProduct)
			r.Post("/products/refresh", s.adminRefresh)
			r.Get("/products/{id}", s.adminGetProduct)
			r.Put("/products/{id}", s.adminUpdateProduct)
			r.Delete("/products/{id}", s.adminDeleteProduct)
			r.Post("/products/{id}/variants", s.adminAddVariant)

			r.Post("/categories", s.adminCreateCategory)
			r.Post("/promotions", s.adminCreatePromotion)

			r.Get("/orders", s.adminListOrders)
			r.Get("/orders/{id}", s.adminGetOrder)
			r.Put("/orders/{id}/status", s.adminUpdateOrderStatus)
			r.Get("/analytics", s.adminAnalytics)
		})
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(SessionHeader))
		if id == "" {
			writeError(w, http.StatusBadRequest, "session_required", SessionHeader+" header is required")
			return
		}

		sess, err := s.sessions.Get(r.Context(), id)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ctxKey{}).(*session.Session)
	return sess
}

// requireAdmin checks the bearer token. Without a configured token admin routes are disabled
// unless they were explicitly opened.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			if s.adminOpen {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusServiceUnavailable, "admin_disabled", "admin token is not configured")
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized", "admin token is missing or invalid")
			return
		}

		next.ServeHTTP(w, r)
	})
}
