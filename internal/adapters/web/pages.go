package web

import (
	"html/template"
	"log"
	"net/http"

	webui "ferreteria-bi/web"
)

// pageSet holds the parsed HTML templates, one entry per page, each combined
// with the shared layout.
type pageSet struct {
	login *template.Template
	pages map[string]*template.Template
}

var pageNames = []string{
	"dashboard.html",
	"inventory.html",
	"alerts.html",
	"analytics.html",
	"finance.html",
	"reports.html",
}

// parsePages parses the embedded templates at startup. A malformed template is
// a programming error, so failures panic.
func parsePages() *pageSet {
	ps := &pageSet{
		login: template.Must(template.ParseFS(webui.Templates, "templates/login.html")),
		pages: make(map[string]*template.Template, len(pageNames)),
	}
	for _, name := range pageNames {
		ps.pages[name] = template.Must(template.ParseFS(webui.Templates, "templates/layout.html", "templates/"+name))
	}
	return ps
}

// pageData is what every layout-based template receives.
type pageData struct {
	Title     string
	Active    string // nav highlight key
	Username  string
	FlashMsg  string
	FlashKind string // "error" or "info"
	Data      any
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, name string, d pageData) {
	if claims := authFromContext(r.Context()); claims != nil {
		d.Username = claims.Username
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages.pages[name].ExecuteTemplate(w, "layout.html", d); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages.login.Execute(w, struct{ Error string }{Error: errMsg}); err != nil {
		log.Printf("render login: %v", err)
	}
}

// ── Login page ────────────────────────────────────────────────────────────────

// loginPage handles GET /login — renders the sign-in page.
// Redirects to the dashboard if already authenticated.
func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("auth_token"); err == nil {
		if _, err := h.parseToken(cookie.Value); err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	h.renderLogin(w, r, "")
}

// loginFormSubmit handles POST /login — form-based login.
func (h *Handler) loginFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, "Formulario inválido.")
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.svc.AuthenticateUser(r.Context(), username, password)
	if err != nil {
		h.renderLogin(w, r, "Usuario o contraseña incorrectos.")
		return
	}

	signed, err := h.signToken(user.ID, user.Username, user.Role)
	if err != nil {
		h.renderLogin(w, r, "Error del servidor. Intente de nuevo.")
		return
	}
	setAuthCookie(w, signed, int(sessionDuration.Seconds()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logoutPage handles POST /logout — clears cookie and redirects to login.
func (h *Handler) logoutPage(w http.ResponseWriter, r *http.Request) {
	setAuthCookie(w, "", -1)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ── Dashboard pages ───────────────────────────────────────────────────────────

// dashboardPage handles GET / — KPI header, insights, top sellers, alerts.
func (h *Handler) dashboardPage(w http.ResponseWriter, r *http.Request) {
	d := pageData{Title: "Dashboard", Active: "dashboard"}
	res, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		d.FlashMsg = "No se pudieron cargar los datos: " + err.Error()
		d.FlashKind = "error"
	} else {
		d.Data = res
	}
	h.renderPage(w, r, "dashboard.html", d)
}

// inventoryPage handles GET /inventario — the filtered product listing.
func (h *Handler) inventoryPage(w http.ResponseWriter, r *http.Request) {
	d := pageData{Title: "Inventario", Active: "inventario"}
	res, err := h.svc.GetInventory(r.Context(), filterFromQuery(r))
	if err != nil {
		d.FlashMsg = "No se pudieron cargar los datos: " + err.Error()
		d.FlashKind = "error"
	} else {
		d.Data = res
	}
	h.renderPage(w, r, "inventory.html", d)
}

// alertsPage handles GET /alertas — critical stock and reorder suggestions.
func (h *Handler) alertsPage(w http.ResponseWriter, r *http.Request) {
	d := pageData{Title: "Alertas de Stock", Active: "alertas"}
	res, err := h.svc.GetCriticalProducts(r.Context())
	if err != nil {
		d.FlashMsg = "No se pudieron cargar los datos: " + err.Error()
		d.FlashKind = "error"
	} else {
		d.Data = res
	}
	h.renderPage(w, r, "alerts.html", d)
}

// analyticsPage handles GET /analitica — ABC, rotation, and model outputs.
func (h *Handler) analyticsPage(w http.ResponseWriter, r *http.Request) {
	d := pageData{Title: "Analítica", Active: "analitica"}

	type analyticsData struct {
		ABC             any
		Rotation        any
		Recommendations any
	}
	var data analyticsData

	abc, err := h.svc.GetABCAnalysis(r.Context())
	if err != nil {
		d.FlashMsg = "No se pudieron cargar los datos: " + err.Error()
		d.FlashKind = "error"
		h.renderPage(w, r, "analytics.html", d)
		return
	}
	data.ABC = abc

	if rot, err := h.svc.GetRotation(r.Context()); err == nil {
		data.Rotation = rot
	}
	if rec, err := h.svc.GetRecommendations(r.Context(), horizonDays(r)); err == nil {
		data.Recommendations = rec
	}
	d.Data = data
	h.renderPage(w, r, "analytics.html", d)
}

// financePage handles GET /finanzas — margins and profitability rollups.
func (h *Handler) financePage(w http.ResponseWriter, r *http.Request) {
	d := pageData{Title: "Finanzas", Active: "finanzas"}
	res, err := h.svc.GetMargins(r.Context())
	if err != nil {
		d.FlashMsg = "No se pudieron cargar los datos: " + err.Error()
		d.FlashKind = "error"
	} else {
		d.Data = res
	}
	h.renderPage(w, r, "finance.html", d)
}

// reportsPage handles GET /reportes — projections and export links.
func (h *Handler) reportsPage(w http.ResponseWriter, r *http.Request) {
	d := pageData{Title: "Reportes", Active: "reportes"}
	res, err := h.svc.GetProjections(r.Context(), horizonDays(r))
	if err != nil {
		d.FlashMsg = "No se pudieron cargar los datos: " + err.Error()
		d.FlashKind = "error"
	} else {
		d.Data = res
	}
	h.renderPage(w, r, "reports.html", d)
}
