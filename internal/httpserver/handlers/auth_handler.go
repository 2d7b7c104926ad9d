package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"decaptrack/internal/audit"
	"decaptrack/internal/auth"
	"decaptrack/internal/models"
	"decaptrack/internal/store"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userSummary struct {
	ID       int         `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

func Login(st store.Store, rec *audit.Recorder, jwtm *auth.Manager, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			fe := models.FieldErrors{}
			if req.Username == "" {
				fe["username"] = "username is required"
			}
			if req.Password == "" {
				fe["password"] = "password is required"
			}
			respondValidation(w, fe)
			return
		}

		u, err := st.GetUserByUsername(r.Context(), req.Username)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "authentication_error", "invalid username or password")
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
			respondError(w, http.StatusUnauthorized, "authentication_error", "invalid username or password")
			return
		}

		sessionID := uuid.NewString()
		if _, err := rec.RecordLogin(r.Context(), u.ID, sessionID, clientIP(r), r.UserAgent()); err != nil {
			lg.Errorw("login bookkeeping failed", "user_id", u.ID, "error", err)
			respondInternal(w)
			return
		}
		token, err := jwtm.Sign(u, sessionID)
		if err != nil {
			lg.Errorw("token signing failed", "user_id", u.ID, "error", err)
			respondInternal(w)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"token": token,
			"user":  userSummary{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role},
		})
	}
}

// Logout closes the caller's session. Calling it again without an
// intervening login is a no-op.
func Logout(rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.FromContext(r.Context())
		_, err := rec.RecordLogout(r.Context(), claims.UserID, claims.SessionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondJSON(w, http.StatusOK, map[string]any{"loggedOut": false})
				return
			}
			lg.Errorw("logout failed", "user_id", claims.UserID, "error", err)
			respondInternal(w)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"loggedOut": true})
	}
}

func Me(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.FromContext(r.Context())
		u, err := st.GetUser(r.Context(), claims.UserID)
		if err != nil {
			respondNotFound(w, "user")
			return
		}
		respondJSON(w, http.StatusOK, userSummary{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role})
	}
}
