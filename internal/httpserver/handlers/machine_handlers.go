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

func ListMachines(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		method := models.DecapingMethod(r.URL.Query().Get("method"))
		machines, err := st.ListMachines(r.Context(), method)
		if err != nil {
			respondInternal(w)
			return
		}
		respondJSON(w, http.StatusOK, machines)
	}
}

func GetMachine(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid machine id")
			return
		}
		m, err := st.GetMachine(r.Context(), id)
		if err != nil {
			respondNotFound(w, "machine")
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

func CreateMachine(st store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.CreateMachineInput
		if err := decodeJSON(r, &in); err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}
		if fe := in.Validate(); !fe.Empty() {
			respondValidation(w, fe)
			return
		}
		m, err := st.CreateMachine(r.Context(), in.Machine())
		if err != nil {
			lg.Errorw("machine create failed", "error", err)
			respondInternal(w)
			return
		}
		claims := auth.FromContext(r.Context())
		rec.Record(r.Context(), "machine_created",
			fmt.Sprintf("Machine %s created", m.Name), claims.UserID,
			audit.Entry{RelatedEntityID: &m.ID, RelatedEntityType: "machine", IPAddress: clientIP(r)})
		respondJSON(w, http.StatusCreated, m)
	}
}

func UpdateMachine(st store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid machine id")
			return
		}
		var patch models.MachinePatch
		if err := decodeJSON(r, &patch); err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}
		if fe := patch.Validate(); !fe.Empty() {
			respondValidation(w, fe)
			return
		}
		m, err := st.UpdateMachine(r.Context(), id, patch)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondNotFound(w, "machine")
				return
			}
			lg.Errorw("machine update failed", "machine_id", id, "error", err)
			respondInternal(w)
			return
		}
		claims := auth.FromContext(r.Context())
		rec.Record(r.Context(), "machine_updated",
			fmt.Sprintf("Machine %s updated", m.Name), claims.UserID,
			audit.Entry{RelatedEntityID: &m.ID, RelatedEntityType: "machine", IPAddress: clientIP(r)})
		respondJSON(w, http.StatusOK, m)
	}
}
