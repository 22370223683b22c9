// internal/api/api.go
//
// JSON API: login, signup, logout, identity resolution, and the
// contact/feedback intake.
//
// Error policy
// ------------
// Handlers convert the service taxonomy at the boundary and never leak
// internals: validation → 400, bad credentials or missing identity →
// 401, duplicate email → 409, anything unexpected → 500 with a zap
// error log.  Failures answer with the `{success:false, message}`
// envelope; /api/me answers `{user:…}` in every branch.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prepdesk/prepdesk/internal/auth"
	"github.com/prepdesk/prepdesk/internal/inbox"
	"github.com/prepdesk/prepdesk/internal/requestinfo"
	"github.com/prepdesk/prepdesk/internal/session"
	"github.com/prepdesk/prepdesk/internal/user"
)

// Handler bundles the services behind the /api subtree.
type Handler struct {
	auth     *auth.Service
	sessions *session.Manager
	inbox    *inbox.Repository
	validate *validator.Validate
	log      *zap.SugaredLogger
}

// New wires the handler.  A nil logger falls back to the global.
func New(authSvc *auth.Service, sessions *session.Manager, box *inbox.Repository,
	validate *validator.Validate, log *zap.SugaredLogger) *Handler {

	if log == nil {
		log = zap.S()
	}
	return &Handler{auth: authSvc, sessions: sessions, inbox: box, validate: validate, log: log}
}

// Routes returns the router mounted at /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.handleLogin)
	r.Post("/signup", h.handleSignup)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
	r.Post("/contact", h.handleContact)
	r.Post("/feedback", h.handleFeedback)
	return r
}

/*──────────────────────────── payloads ────────────────────────────────────*/

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email"     validate:"required"`
	Password string `json:"password"  validate:"required"`
	Role     string `json:"role"`
}

type contactRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

type feedbackRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comments string `json:"comments"`
}

/*──────────────────────────── handlers ────────────────────────────────────*/

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	if h.validate.Struct(&req) != nil {
		h.fail(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	ident, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.auditLogin(r, req.Email, false)
			h.fail(w, http.StatusUnauthorized, "Invalid credentials.")
			return
		}
		h.internal(w, "login", err)
		return
	}

	h.auditLogin(r, req.Email, true)
	h.sessions.Issue(w, r, ident.ID)
	h.respond(w, http.StatusOK, map[string]any{"success": true, "user": ident})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decode(w, r, &req) {
		return
	}
	if h.validate.Struct(&req) != nil {
		h.fail(w, http.StatusBadRequest, "Full name, email, and password are required.")
		return
	}

	ident, err := h.auth.Signup(r.Context(), req.FullName, req.Email, req.Password, user.Role(req.Role))
	switch {
	case errors.Is(err, auth.ErrBadRole):
		h.fail(w, http.StatusBadRequest, "Unknown role.")
	case errors.Is(err, auth.ErrEmailTaken):
		h.fail(w, http.StatusConflict, "Email already registered.")
	case err != nil:
		h.internal(w, "signup", err)
	default:
		h.respond(w, http.StatusOK, map[string]any{"success": true, "user": ident})
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}

// handleMe is the identity-resolution endpoint.  The cookie, not a
// bearer header, is the session carrier; a missing or forged cookie is
// 401 {user:null}, a stale id is 200 {user:null}.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessions.UserID(r)
	if !ok {
		h.respond(w, http.StatusUnauthorized, map[string]any{"user": nil})
		return
	}

	ident, err := h.auth.Resolve(r.Context(), id)
	if err != nil {
		h.log.Errorw("identity resolution", "err", err)
		h.respond(w, http.StatusInternalServerError, map[string]any{"user": nil})
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"user": ident})
}

func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !h.decode(w, r, &req) {
		return
	}
	if h.validate.Struct(&req) != nil {
		h.fail(w, http.StatusBadRequest, "Name, a valid email, and a message are required.")
		return
	}

	if err := h.inbox.AddContact(r.Context(), req.Name, req.Email, req.Message); err != nil {
		h.internal(w, "contact", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !h.decode(w, r, &req) {
		return
	}
	if h.validate.Struct(&req) != nil {
		h.fail(w, http.StatusBadRequest, "Rating must be between 1 and 5.")
		return
	}

	// Attribute the entry when the caller presents a valid session;
	// anonymous feedback is fine too.
	var userID int64
	if id, ok := h.sessions.UserID(r); ok {
		userID = id
	}

	if err := h.inbox.AddFeedback(r.Context(), userID, req.Rating, req.Comments); err != nil {
		h.internal(w, "feedback", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// decode parses the JSON body, answering 400 on malformed input.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Errorw("response encode", "err", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, status int, msg string) {
	h.respond(w, status, map[string]any{"success": false, "message": msg})
}

func (h *Handler) internal(w http.ResponseWriter, op string, err error) {
	h.log.Errorw(op, "err", err)
	h.fail(w, http.StatusInternalServerError, "Something went wrong.")
}

// auditLogin records one line per attempt with the request fingerprint
// gathered by the enrichment middleware (UA family, device class, geo).
func (h *Handler) auditLogin(r *http.Request, email string, ok bool) {
	kv := []any{"email", email, "ok", ok}
	if info := requestinfo.FromContext(r.Context()); info != nil {
		kv = append(kv,
			"ip", info.Geo.IP,
			"country", info.Geo.CountryISO,
			"browser", info.UA.Browser,
			"device", info.UA.Device,
			"bot", info.UA.IsBot,
		)
	}
	h.log.Infow("login attempt", kv...)
}
