package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"decaptrack/internal/audit"
	"decaptrack/internal/auth"
	"decaptrack/internal/models"
	"decaptrack/internal/policy"
	"decaptrack/internal/store"
)

func ListOperations(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		method := models.DecapingMethod(r.URL.Query().Get("method"))
		ops, err := st.ListOperations(r.Context(), method)
		if err != nil {
			respondInternal(w)
			return
		}
		respondJSON(w, http.StatusOK, ops)
	}
}

func GetOperation(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid operation id")
			return
		}
		op, err := st.GetOperation(r.Context(), id)
		if err != nil {
			respondNotFound(w, "operation")
			return
		}
		respondJSON(w, http.StatusOK, op)
	}
}

// CreateOperation validates the body and persists it; the store assigns the
// day-scoped operation identifier and the creator comes from the token.
func CreateOperation(st store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.CreateOperationInput
		if err := decodeJSON(r, &in); err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}
		if fe := in.Validate(); !fe.Empty() {
			respondValidation(w, fe)
			return
		}
		claims := auth.FromContext(r.Context())
		op := in.Operation()
		op.UserID = claims.UserID
		op, err := st.CreateOperation(r.Context(), op)
		if err != nil {
			lg.Errorw("operation create failed", "error", err)
			respondInternal(w)
			return
		}
		rec.Record(r.Context(), "operation_created",
			fmt.Sprintf("Operation %s created for %s", op.OperationID, op.DecapingMethod), claims.UserID,
			audit.Entry{RelatedEntityID: &op.ID, RelatedEntityType: "operation", IPAddress: clientIP(r)})
		respondJSON(w, http.StatusCreated, op)
	}
}

func UpdateOperation(st store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid operation id")
			return
		}
		existing, err := st.GetOperation(r.Context(), id)
		if err != nil {
			respondNotFound(w, "operation")
			return
		}
		claims := auth.FromContext(r.Context())
		if !policy.CanModifyOperation(claims.Role, claims.UserID, existing.UserID) {
			respondError(w, http.StatusForbidden, "authorization_error", "permission denied")
			return
		}
		var patch models.OperationPatch
		if err := decodeJSON(r, &patch); err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}
		if fe := patch.Validate(); !fe.Empty() {
			respondValidation(w, fe)
			return
		}
		op, err := st.UpdateOperation(r.Context(), id, patch)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondNotFound(w, "operation")
				return
			}
			lg.Errorw("operation update failed", "operation_id", id, "error", err)
			respondInternal(w)
			return
		}
		rec.Record(r.Context(), "operation_updated",
			fmt.Sprintf("Operation %s updated", op.OperationID), claims.UserID,
			audit.Entry{RelatedEntityID: &op.ID, RelatedEntityType: "operation", IPAddress: clientIP(r)})
		respondJSON(w, http.StatusOK, op)
	}
}
