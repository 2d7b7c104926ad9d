// Package audit maintains the immutable trail of user actions and login
// sessions.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"decaptrack/internal/models"
	"decaptrack/internal/store"
)

// Recorder appends Activity and ConnectionLog records through the store.
// Recording happens only after the triggering mutation succeeded, so failed
// requests leave no trace.
type Recorder struct {
	st store.Store
	lg *zap.SugaredLogger
}

func NewRecorder(st store.Store, lg *zap.SugaredLogger) *Recorder {
	return &Recorder{st: st, lg: lg}
}

// Entry carries the optional context of an activity append.
type Entry struct {
	RelatedEntityID   *int
	RelatedEntityType string
	IPAddress         string
	ActionStatus      string
}

// Record appends an Activity with a server-assigned id and timestamp.
func (r *Recorder) Record(ctx context.Context, typ, description string, userID int, e Entry) {
	a := models.Activity{
		Type:            typ,
		Description:     description,
		UserID:          userID,
		RelatedEntityID: e.RelatedEntityID,
		ActionStatus:    e.ActionStatus,
	}
	if e.RelatedEntityType != "" {
		a.RelatedEntityType = &e.RelatedEntityType
	}
	if e.IPAddress != "" {
		a.IPAddress = &e.IPAddress
	}
	if _, err := r.st.CreateActivity(ctx, a); err != nil {
		r.lg.Errorw("activity append failed", "type", typ, "user_id", userID, "error", err)
	}
}

// RecordLogin appends a ConnectionLog bound to sessionID and stamps the
// user's lastLogin with the log's timestamp.
func (r *Recorder) RecordLogin(ctx context.Context, userID int, sessionID, ip, userAgent string) (models.ConnectionLog, error) {
	cl := models.ConnectionLog{UserID: userID, SessionID: sessionID}
	if ip != "" {
		cl.IPAddress = &ip
	}
	if userAgent != "" {
		cl.UserAgent = &userAgent
	}
	cl, err := r.st.CreateConnectionLog(ctx, cl)
	if err != nil {
		return models.ConnectionLog{}, err
	}
	if err := r.st.TouchUserLogin(ctx, userID, cl.Timestamp); err != nil {
		return models.ConnectionLog{}, err
	}
	return cl, nil
}

// RecordLogout closes the session's ConnectionLog, setting logoutTime and the
// session duration in whole seconds. Returns store.ErrNotFound when no open
// session exists, which callers treat as a no-op.
func (r *Recorder) RecordLogout(ctx context.Context, userID int, sessionID string) (models.ConnectionLog, error) {
	return r.st.CloseConnectionLog(ctx, userID, sessionID, time.Now())
}
