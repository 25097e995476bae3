package web

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"ferreteria-bi/internal/app"
	"ferreteria-bi/internal/core"
	webui "ferreteria-bi/web"

	"github.com/go-chi/chi/v5"
)

// Handler holds the DashboardService and the route dependencies.
type Handler struct {
	svc        app.DashboardService
	jwtSecret  string
	fileServer http.Handler
	pages      *pageSet
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.DashboardService, allowedOrigins, jwtSecret string) http.Handler {
	staticFS, err := fs.Sub(webui.Static, "static")
	if err != nil {
		panic("web/static embed sub-FS failed: " + err.Error())
	}

	h := &Handler{
		svc:        svc,
		jwtSecret:  jwtSecret,
		fileServer: http.FileServer(http.FS(staticFS)),
		pages:      parsePages(),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public API) ─────────────────────────────────────────────────────
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Static files served at /static/* ─────────────────────────────────────
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		http.StripPrefix("/static", h.fileServer).ServeHTTP(w, req)
	})

	// ── Browser login/logout (public HTML) ───────────────────────────────────
	r.Get("/login", h.loginPage)
	r.Post("/login", h.loginFormSubmit)
	r.Post("/logout", h.logoutPage)

	// ── Protected browser routes (redirect to /login if unauthenticated) ─────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuthBrowser)
		r.Get("/", h.dashboardPage)
		r.Get("/inventario", h.inventoryPage)
		r.Get("/alertas", h.alertsPage)
		r.Get("/analitica", h.analyticsPage)
		r.Get("/finanzas", h.financePage)
		r.Get("/reportes", h.reportsPage)
	})

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		r.Get("/api/dashboard", h.apiDashboard)
		r.Get("/api/kpis", h.apiKPIs)
		r.Get("/api/insights", h.apiInsights)
		r.Get("/api/productos", h.apiInventory)
		r.Get("/api/criticos", h.apiCritical)
		r.Get("/api/abc", h.apiABC)
		r.Get("/api/rotacion", h.apiRotation)
		r.Get("/api/margenes", h.apiMargins)
		r.Get("/api/proyecciones", h.apiProjections)
		r.Get("/api/recomendaciones", h.apiRecommendations)
		r.Post("/api/refresh", h.apiRefresh)

		r.Get("/api/export/inventario.csv", h.exportInventory)
		r.Get("/api/export/criticos.csv", h.exportCritical)
		r.Get("/api/export/abc.csv", h.exportABC)
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// ── API handlers ──────────────────────────────────────────────────────────────

func (h *Handler) apiDashboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		writeLoadError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiKPIs(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		writeLoadError(w, r, err)
		return
	}
	writeJSON(w, res.KPIs)
}

func (h *Handler) apiInsights(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		writeLoadError(w, r, err)
		return
	}
	writeJSON(w, res.Insights)
}

// filterFromQuery builds an inventory filter from the query string:
// ?categoria=, ?proveedor=, ?estado= (comma-separated stock states).
func filterFromQuery(r *http.Request) app.Filter {
	f := app.Filter{
		Category: r.URL.Query().Get("categoria"),
		Supplier: r.URL.Query().Get("proveedor"),
	}
	if estados := r.URL.Query().Get("estado"); estados != "" {
		for _, s := range strings.Split(estados, ",") {
			if t := strings.TrimSpace(s); t != "" {
				f.States = append(f.States, core.StockState(t))
			}
		}
	}
	return f
}

func (h *Handler) apiInventory(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetInventory(r.Context(), filterFromQuery(r))
	if err != nil {
		writeLoadError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiCritical(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetCriticalProducts(r.Context())
	if err != nil {
		writeLoadError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiABC(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetABCAnalysis(r.Context())
	if err != nil {
		writeLoadError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiRotation(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetRotation(r.Context())
	if err != nil {
		writeLoadError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiMargins(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetMargins(r.Context())
	if err != nil {
		writeLoadError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// horizonDays reads the ?dias= query parameter; 0 lets the service apply its
// default.
func horizonDays(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("dias"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (h *Handler) apiProjections(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetProjections(r.Context(), horizonDays(r))
	if err != nil {
		writeLoadError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiRecommendations(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetRecommendations(r.Context(), horizonDays(r))
	if err != nil {
		writeLoadError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Refresh(r.Context()); err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "refreshed"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
