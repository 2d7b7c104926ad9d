package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"decaptrack/internal/audit"
	"decaptrack/internal/auth"
	"decaptrack/internal/models"
	"decaptrack/internal/store"
)

func ListUsers(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := st.ListUsers(r.Context())
		if err != nil {
			respondInternal(w)
			return
		}
		respondJSON(w, http.StatusOK, users)
	}
}

func GetUser(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid user id")
			return
		}
		u, err := st.GetUser(r.Context(), id)
		if err != nil {
			respondNotFound(w, "user")
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

func CreateUser(st store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.CreateUserInput
		if err := decodeJSON(r, &in); err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}
		if fe := in.Validate(); !fe.Empty() {
			respondValidation(w, fe)
			return
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			lg.Errorw("password hash failed", "error", err)
			respondInternal(w)
			return
		}
		u, err := st.CreateUser(r.Context(), models.User{
			Username:     in.Username,
			PasswordHash: hash,
			Name:         in.Name,
			Role:         in.Role,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateUsername) {
				respondValidation(w, models.FieldErrors{"username": "username already taken"})
				return
			}
			lg.Errorw("user create failed", "error", err)
			respondInternal(w)
			return
		}
		claims := auth.FromContext(r.Context())
		rec.Record(r.Context(), "user_created",
			fmt.Sprintf("User %s created", u.Username), claims.UserID,
			audit.Entry{RelatedEntityID: &u.ID, RelatedEntityType: "user", IPAddress: clientIP(r)})
		respondJSON(w, http.StatusCreated, u)
	}
}

func UpdateUser(st store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid user id")
			return
		}
		var patch models.UserPatch
		if err := decodeJSON(r, &patch); err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}
		if fe := patch.Validate(); !fe.Empty() {
			respondValidation(w, fe)
			return
		}
		var hash string
		if patch.Password != nil {
			var err error
			hash, err = auth.HashPassword(*patch.Password)
			if err != nil {
				lg.Errorw("password hash failed", "error", err)
				respondInternal(w)
				return
			}
		}
		u, err := st.UpdateUser(r.Context(), id, patch, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondNotFound(w, "user")
				return
			}
			if errors.Is(err, store.ErrDuplicateUsername) {
				respondValidation(w, models.FieldErrors{"username": "username already taken"})
				return
			}
			lg.Errorw("user update failed", "user_id", id, "error", err)
			respondInternal(w)
			return
		}
		claims := auth.FromContext(r.Context())
		rec.Record(r.Context(), "user_updated",
			fmt.Sprintf("User %s updated", u.Username), claims.UserID,
			audit.Entry{RelatedEntityID: &u.ID, RelatedEntityType: "user", IPAddress: clientIP(r)})
		respondJSON(w, http.StatusOK, u)
	}
}

// DeleteUser removes a user. Deleting the last remaining admin is refused
// regardless of who asks.
func DeleteUser(st store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid user id")
			return
		}
		if err := st.DeleteUser(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondNotFound(w, "user")
				return
			}
			if errors.Is(err, store.ErrLastAdmin) {
				respondError(w, http.StatusConflict, "invariant_violation", "cannot delete the last admin")
				return
			}
			lg.Errorw("user delete failed", "user_id", id, "error", err)
			respondInternal(w)
			return
		}
		claims := auth.FromContext(r.Context())
		rec.Record(r.Context(), "user_deleted",
			fmt.Sprintf("User %d deleted", id), claims.UserID,
			audit.Entry{RelatedEntityID: &id, RelatedEntityType: "user", IPAddress: clientIP(r)})
		respondJSON(w, http.StatusOK, map[string]any{"deleted": true})
	}
}
