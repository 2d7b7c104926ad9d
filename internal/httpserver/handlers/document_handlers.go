package handlers

import (
	"net/http"

	"decaptrack/internal/store"
)

func ListDocuments(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := st.ListDocuments(r.Context())
		if err != nil {
			respondInternal(w)
			return
		}
		respondJSON(w, http.StatusOK, docs)
	}
}

func GetDocument(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid document id")
			return
		}
		d, err := st.GetDocument(r.Context(), id)
		if err != nil {
			respondNotFound(w, "document")
			return
		}
		respondJSON(w, http.StatusOK, d)
	}
}
