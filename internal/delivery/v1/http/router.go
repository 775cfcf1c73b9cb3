package http

import (
	"net/http"
	"time"

	_ "github.com/DRSN-tech/marketplace-sync/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/marketplace-sync/internal/cfg"
	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"github.com/unrolled/secure"
)

// RequestMetrics принимает HTTP-метрики и отдаёт их экспорт.
type RequestMetrics interface {
	RecordRequest(method, endpoint string, statusCode int, duration time.Duration)
	Handler() http.Handler
}

type UseCases struct {
	Sync    usecase.SyncUC
	Backlog usecase.BacklogUC
	Order   usecase.OrderUC
	Cart    usecase.CartUC
}

type Router struct {
	router  *chi.Mux
	cfg     *cfg.Config
	metrics RequestMetrics
	logger  logger.Logger
}

// NewRouter: metrics может быть nil, тогда /metrics не регистрируется.
func NewRouter(router *chi.Mux, cfg *cfg.Config, metrics RequestMetrics, logger logger.Logger) *Router {
	return &Router{router: router, cfg: cfg, metrics: metrics, logger: logger}
}

func (r *Router) Init(uc UseCases) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	r.router.Use(middleware.Recoverer)
	if r.metrics != nil {
		r.router.Use(r.recordRequests)
		r.router.Method(http.MethodGet, "/metrics", r.metrics.Handler())
	}

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(r.cfg.Http.SwaggerURL), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(apiSecurityHeaders().Handler)
		registerSyncRoutes(v1, NewSyncHandler(uc.Sync, validate, r.cfg.Sync.MaxBodyBytes, r.logger), r.cfg.Sync)
		registerBacklogRoutes(v1, NewBacklogHandler(uc.Backlog, r.logger))
		registerOrderRoutes(v1, NewOrderHandler(uc.Order, validate, r.logger))
		registerCartRoutes(v1, NewCartHandler(uc.Cart, validate, r.logger))
	})
}

func registerSyncRoutes(router chi.Router, h *SyncHandler, syncCfg *cfg.SyncCfg) {
	router.Route("/sync", func(sr chi.Router) {
		sr.Use(httprate.Limit(syncCfg.RateLimit, syncCfg.RateLimitWindow, httprate.WithKeyFuncs(keyByToken)))
		sr.Post("/update", h.syncUpdate)
	})
}

func registerBacklogRoutes(router chi.Router, h *BacklogHandler) {
	router.Get("/not-synced", h.listNotSynced)
	router.Get("/not-synced/*", h.listNotSynced)
	router.Route("/shops/{shopId}", func(sr chi.Router) {
		sr.Get("/not-synced", h.listNotSynced)
		sr.Get("/not-synced/*", h.listNotSynced)
		sr.Get("/sync-intersects", h.listIntersects)
	})
}

func registerOrderRoutes(router chi.Router, h *OrderHandler) {
	router.Post("/orders/update", h.updateOrder)
}

func registerCartRoutes(router chi.Router, h *CartHandler) {
	router.Route("/cart", func(cr chi.Router) {
		cr.Get("/", h.getCart)
		cr.Post("/products", h.addProduct)
		cr.Patch("/products", h.updateProduct)
		cr.Delete("/products", h.deleteProduct)
		cr.Post("/repeat-order", h.repeatOrder)
	})
}

// apiSecurityHeaders выставляет заголовки безопасности для JSON API.
// Swagger UI под ними не работает, поэтому middleware висит только на /api/v1.
func apiSecurityHeaders() *secure.Secure {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})
}

// keyByToken ограничивает синхронизацию по токену магазина, без токена по IP.
func keyByToken(r *http.Request) (string, error) {
	if token := r.URL.Query().Get("token"); token != "" {
		return "token:" + token, nil
	}

	return httprate.KeyByIP(r)
}

func (r *Router) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}
		r.metrics.RecordRequest(req.Method, endpoint, ww.Status(), time.Since(started))
	})
}
