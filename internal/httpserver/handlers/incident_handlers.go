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

func ListSafetyIncidents(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		incidents, err := st.ListSafetyIncidents(r.Context())
		if err != nil {
			respondInternal(w)
			return
		}
		respondJSON(w, http.StatusOK, incidents)
	}
}

func GetSafetyIncident(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid incident id")
			return
		}
		si, err := st.GetSafetyIncident(r.Context(), id)
		if err != nil {
			respondNotFound(w, "safety incident")
			return
		}
		respondJSON(w, http.StatusOK, si)
	}
}

// CreateSafetyIncident records a new incident; reportedBy always comes from
// the caller's token.
func CreateSafetyIncident(st store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.CreateSafetyIncidentInput
		if err := decodeJSON(r, &in); err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}
		if fe := in.Validate(); !fe.Empty() {
			respondValidation(w, fe)
			return
		}
		claims := auth.FromContext(r.Context())
		si := in.Incident()
		si.ReportedBy = claims.UserID
		si, err := st.CreateSafetyIncident(r.Context(), si)
		if err != nil {
			lg.Errorw("incident create failed", "error", err)
			respondInternal(w)
			return
		}
		rec.Record(r.Context(), "safety_incident_reported",
			fmt.Sprintf("Safety incident reported: %s", si.IncidentType), claims.UserID,
			audit.Entry{RelatedEntityID: &si.ID, RelatedEntityType: "safety_incident", IPAddress: clientIP(r)})
		respondJSON(w, http.StatusCreated, si)
	}
}

// UpdateSafetyIncident patches an incident, typically moving its status from
// open to resolved.
func UpdateSafetyIncident(st store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid incident id")
			return
		}
		var patch models.SafetyIncidentPatch
		if err := decodeJSON(r, &patch); err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}
		if fe := patch.Validate(); !fe.Empty() {
			respondValidation(w, fe)
			return
		}
		si, err := st.UpdateSafetyIncident(r.Context(), id, patch)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondNotFound(w, "safety incident")
				return
			}
			lg.Errorw("incident update failed", "incident_id", id, "error", err)
			respondInternal(w)
			return
		}
		claims := auth.FromContext(r.Context())
		rec.Record(r.Context(), "safety_incident_updated",
			fmt.Sprintf("Safety incident %d updated", si.ID), claims.UserID,
			audit.Entry{RelatedEntityID: &si.ID, RelatedEntityType: "safety_incident", IPAddress: clientIP(r)})
		respondJSON(w, http.StatusOK, si)
	}
}
