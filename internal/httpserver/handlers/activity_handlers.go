package handlers

import (
	"net/http"

	"decaptrack/internal/store"
)

// ListActivities returns the audit trail newest-first. Supports ?limit= and
// ?userId= filtering.
func ListActivities(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activities, err := st.ListActivities(r.Context(), queryInt(r, "userId"), queryInt(r, "limit"))
		if err != nil {
			respondInternal(w)
			return
		}
		respondJSON(w, http.StatusOK, activities)
	}
}

// ListConnectionLogs returns login sessions newest-first, admin only.
func ListConnectionLogs(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := st.ListConnectionLogs(r.Context(), queryInt(r, "userId"), queryInt(r, "limit"))
		if err != nil {
			respondInternal(w)
			return
		}
		respondJSON(w, http.StatusOK, logs)
	}
}
