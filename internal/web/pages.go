// internal/web/pages.go
//
// Server-rendered page shells: marketing home, login, and the two
// role-gated dashboards.
//
// Context
// -------
// Rendering is deliberately minimal—the real styling lives in static
// assets served elsewhere.  What matters here is the flow: every
// protected page resolves identity through the session accessor (a
// same-origin /api/me round trip per request), and the role gate decides
// between render and redirect before any handler below runs.

package web

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/prepdesk/prepdesk/internal/auth"
	"github.com/prepdesk/prepdesk/internal/gate"
	"github.com/prepdesk/prepdesk/internal/inbox"
	"github.com/prepdesk/prepdesk/internal/session"
	"github.com/prepdesk/prepdesk/internal/user"
)

// recentLimit bounds the admin dashboard lists.
const recentLimit = 50

// Handler serves the page tree.
type Handler struct {
	accessor *session.Accessor
	gate     *gate.Gate
	inbox    *inbox.Repository
	log      *zap.SugaredLogger

	tmpl *template.Template
}

// New wires the page handler.  A nil logger falls back to the global.
func New(accessor *session.Accessor, g *gate.Gate, box *inbox.Repository, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = zap.S()
	}
	return &Handler{
		accessor: accessor,
		gate:     g,
		inbox:    box,
		log:      log,
		tmpl:     template.Must(template.New("pages").Parse(pageTemplates)),
	}
}

// Routes returns the router mounted at /.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleHome)
	r.Get("/login", h.handleLoginPage)

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.gate.Require(user.RoleAdmin))
		r.Get("/", h.handleAdminDashboard)
	})
	r.Route("/student", func(r chi.Router) {
		r.Use(h.gate.Require(user.RoleStudent))
		r.Get("/", h.handleStudentDashboard)
	})
	return r
}

/*──────────────────────────── handlers ────────────────────────────────────*/

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	// Public page; identity only tweaks the header links.
	h.render(w, "home", map[string]any{
		"Identity": h.accessor.Current(r),
	})
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// An authenticated visitor has no business on /login; steer them to
	// their own section.
	if ident := h.accessor.Current(r); ident != nil {
		http.Redirect(w, r, gate.SectionRoot(ident.Role), http.StatusFound)
		return
	}
	h.render(w, "login", nil)
}

func (h *Handler) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	contacts, err := h.inbox.RecentContacts(r.Context(), recentLimit)
	if err != nil {
		h.log.Errorw("admin contacts", "err", err)
	}
	feedback, err := h.inbox.RecentFeedback(r.Context(), recentLimit)
	if err != nil {
		h.log.Errorw("admin feedback", "err", err)
	}

	h.render(w, "admin", map[string]any{
		"Identity": ident,
		"Contacts": contacts,
		"Feedback": feedback,
	})
}

func (h *Handler) handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	h.render(w, "student", map[string]any{
		"Identity": ident,
	})
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.log.Errorw("render", "page", name, "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

/*──────────────────────────── templates ───────────────────────────────────*/

const pageTemplates = `
{{define "home"}}<!doctype html>
<html><head><title>Prepdesk</title></head><body>
<header>
  {{if .Identity}}<a href="{{if eq .Identity.Role "admin"}}/admin{{else}}/student{{end}}">Dashboard</a>{{else}}<a href="/login">Log in</a>{{end}}
</header>
<main>
  <h1>Practice smarter.  Score higher.</h1>
  <p>Timed practice tests, instant scoring, and progress tracking.</p>
</main>
</body></html>{{end}}

{{define "login"}}<!doctype html>
<html><head><title>Log in – Prepdesk</title></head><body>
<main>
  <h1>Log in</h1>
  <form method="post" action="/api/login" id="login-form">
    <input type="email" name="email" required>
    <input type="password" name="password" required>
    <button type="submit">Log in</button>
  </form>
</main>
</body></html>{{end}}

{{define "admin"}}<!doctype html>
<html><head><title>Admin – Prepdesk</title></head><body>
<main>
  <h1>Admin dashboard</h1>
  <p>Signed in as {{.Identity.Email}}</p>
  <section>
    <h2>Contact messages</h2>
    <ul>{{range .Contacts}}<li>{{.Name}} &lt;{{.Email}}&gt;: {{.Message}}</li>{{end}}</ul>
  </section>
  <section>
    <h2>Feedback</h2>
    <ul>{{range .Feedback}}<li>{{.Rating}}/5 {{.Comments}}</li>{{end}}</ul>
  </section>
</main>
</body></html>{{end}}

{{define "student"}}<!doctype html>
<html><head><title>Student – Prepdesk</title></head><body>
<main>
  <h1>Student dashboard</h1>
  <p>Signed in as {{.Identity.Email}}</p>
  <p>Your practice tests live here.</p>
</main>
</body></html>{{end}}
`
