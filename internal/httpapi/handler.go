// Package httpapi translates transport requests into service calls and owns
// the status-code mapping for the wire contract.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"parley/internal/auth"
	"parley/internal/identity"
	"parley/internal/messaging"
)

// Handler wires HTTP endpoints to the identity/auth/messaging services.
//
// All dependencies are injected at construction; there are no ambient
// singletons behind the handlers.
type Handler struct {
	log *slog.Logger
	cfg Config

	ids  *identity.Service
	auth *auth.Service
	msgs *messaging.Service
}

// NewHandler constructs the API handler.
func NewHandler(log *slog.Logger, cfg Config, ids *identity.Service, authSvc *auth.Service, msgs *messaging.Service) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		log:  log,
		cfg:  cfg,
		ids:  ids,
		auth: authSvc,
		msgs: msgs,
	}
}

// Register wires API routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("POST /user", h.handleCreateUser)
	mux.HandleFunc("GET /user", h.handleListUsers)
	mux.HandleFunc("GET /user/{email}", h.handleGetUser)
	mux.HandleFunc("PUT /user/{email}", h.handleUpdateUser)
	mux.HandleFunc("DELETE /user/{email}", h.handleDeleteUser)

	mux.HandleFunc("POST /auth", h.handleAuthenticate)

	mux.HandleFunc("POST /message", h.handleSendMessage)
	mux.HandleFunc("GET /message/{email}", h.listMessages(messaging.DirectionReceived))
	mux.HandleFunc("GET /message/all/{email}", h.listMessages(messaging.DirectionAll))
	mux.HandleFunc("GET /message/sent/{email}", h.listMessages(messaging.DirectionSent))
}

// ---- identity handlers ----

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req createUserRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, start, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Nickname == "" {
		writeError(w, start, http.StatusBadRequest, "invalid_request", "email, password and nickname are required")
		return
	}

	_, err := h.ids.Register(r.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		switch {
		case identity.IsWeakSecret(err):
			writeError(w, start, http.StatusBadRequest, "weak_password", "password must have at least 8 characters")
		case identity.IsConflict(err):
			writeError(w, start, http.StatusConflict, "already_exists", "user already exists")
		case identity.IsInvalidInput(err):
			writeError(w, start, http.StatusBadRequest, "invalid_request", "invalid input")
		default:
			h.log.Error("api.create_user.fail", "err", err)
			writeError(w, start, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, statusResponse{Message: "User created", meta: newMeta(start)})
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ids, err := h.ids.ListAll(r.Context())
	if err != nil {
		h.log.Error("api.list_users.fail", "err", err)
		writeError(w, start, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	users := make([]userResponse, 0, len(ids))
	for _, id := range ids {
		users = append(users, userResponse{Email: id.Key, Nickname: id.DisplayName})
	}
	writeJSON(w, http.StatusOK, listUsersResponse{Users: users, meta: newMeta(start)})
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := h.ids.Lookup(r.Context(), r.PathValue("email"))
	if err != nil {
		if identity.IsNotFound(err) {
			writeError(w, start, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.log.Error("api.get_user.fail", "err", err)
		writeError(w, start, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, userDetailResponse{
		userResponse: userResponse{Email: id.Key, Nickname: id.DisplayName},
		meta:         newMeta(start),
	})
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req updateUserRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, start, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if req.Password == "" || req.Nickname == "" {
		writeError(w, start, http.StatusBadRequest, "invalid_request", "password and nickname are required")
		return
	}

	ok, err := h.ids.Update(r.Context(), r.PathValue("email"), req.Password, req.Nickname)
	if err != nil {
		switch {
		case identity.IsWeakSecret(err):
			writeError(w, start, http.StatusBadRequest, "weak_password", "password must have at least 8 characters")
		case identity.IsInvalidInput(err):
			writeError(w, start, http.StatusBadRequest, "invalid_request", "invalid input")
		default:
			h.log.Error("api.update_user.fail", "err", err)
			writeError(w, start, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}
	if !ok {
		writeError(w, start, http.StatusNotFound, "not_found", "user not found")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Message: "User updated", meta: newMeta(start)})
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ok, err := h.ids.Remove(r.Context(), r.PathValue("email"))
	if err != nil {
		h.log.Error("api.delete_user.fail", "err", err)
		writeError(w, start, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	if !ok {
		writeError(w, start, http.StatusNotFound, "not_found", "user not found")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Message: "User deleted", meta: newMeta(start)})
}

// ---- auth handler ----

func (h *Handler) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req authRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, start, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, start, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	token, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, start, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
			return
		}
		h.log.Error("api.authenticate.fail", "err", err)
		writeError(w, start, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, meta: newMeta(start)})
}

// ---- messaging handlers ----

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	token := bearerToken(r)
	if token == "" {
		writeError(w, start, http.StatusUnauthorized, "unauthorized", "missing token")
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, start, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if req.Source == "" || req.Target == "" || req.Message == "" {
		writeError(w, start, http.StatusBadRequest, "invalid_request", "source, target and message are required")
		return
	}

	_, err := h.msgs.Send(r.Context(), token, req.Source, req.Target, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, messaging.ErrUnauthorized):
			writeError(w, start, http.StatusUnauthorized, "unauthorized", "token not valid for source")
		case errors.Is(err, messaging.ErrEmptyBody), errors.Is(err, messaging.ErrInvalidInput):
			writeError(w, start, http.StatusBadRequest, "invalid_request", "invalid input")
		default:
			h.log.Error("api.send_message.fail", "err", err)
			writeError(w, start, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, statusResponse{Message: "Message sent", meta: newMeta(start)})
}

func (h *Handler) listMessages(dir messaging.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		token := bearerToken(r)
		if token == "" {
			writeError(w, start, http.StatusUnauthorized, "unauthorized", "missing token")
			return
		}

		msgs, err := h.msgs.MessagesFor(r.Context(), token, r.PathValue("email"), dir)
		if err != nil {
			switch {
			case errors.Is(err, messaging.ErrUnauthorized):
				writeError(w, start, http.StatusUnauthorized, "unauthorized", "token not valid for mailbox")
			case errors.Is(err, messaging.ErrInvalidInput):
				writeError(w, start, http.StatusBadRequest, "invalid_request", "invalid input")
			default:
				h.log.Error("api.list_messages.fail", "err", err, "direction", dir.String())
				writeError(w, start, http.StatusInternalServerError, "server_error", "internal error")
			}
			return
		}

		out := make([]messageResponse, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, messageResponse{
				Source:  m.Sender,
				Target:  m.Recipient,
				Message: m.Body,
				SentAt:  m.SentAt,
			})
		}
		writeJSON(w, http.StatusOK, listMessagesResponse{Messages: out, meta: newMeta(start)})
	}
}

// bearerToken extracts the bearer token from the Authorization header.
// The header carries the token verbatim for compatibility with existing
// clients; a conventional "Bearer " prefix is also accepted.
func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(raw, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutPrefix(raw, "bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return raw
}
