package audit

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"decaptrack/internal/models"
	"decaptrack/internal/store"
	"decaptrack/internal/store/memory"
)

func newRecorder(t *testing.T) (*Recorder, store.Store, models.User) {
	t.Helper()
	st := memory.New()
	u, err := st.CreateUser(context.Background(), models.User{
		Username: "supervisor", PasswordHash: "x", Name: "Ahmed Bouhmidi", Role: models.RoleSupervisor,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewRecorder(st, zap.NewNop().Sugar()), st, u
}

func TestRecordAppendsActivity(t *testing.T) {
	rec, st, u := newRecorder(t)
	ctx := context.Background()

	entityID := 7
	rec.Record(ctx, "operation_created", "Operation OP-20250601-001 created for transport", u.ID,
		Entry{RelatedEntityID: &entityID, RelatedEntityType: "operation", IPAddress: "10.0.0.1"})

	activities, err := st.ListActivities(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListActivities: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("activities = %d", len(activities))
	}
	a := activities[0]
	if a.Type != "operation_created" || a.UserID != u.ID {
		t.Fatalf("activity = %+v", a)
	}
	if a.RelatedEntityID == nil || *a.RelatedEntityID != 7 {
		t.Fatalf("relatedEntityId = %v", a.RelatedEntityID)
	}
	if a.RelatedEntityType == nil || *a.RelatedEntityType != "operation" {
		t.Fatalf("relatedEntityType = %v", a.RelatedEntityType)
	}
	if a.IPAddress == nil || *a.IPAddress != "10.0.0.1" {
		t.Fatalf("ipAddress = %v", a.IPAddress)
	}
	if a.ActionStatus != "success" {
		t.Fatalf("actionStatus = %q", a.ActionStatus)
	}
	if a.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestRecordLoginOpensSessionAndTouchesUser(t *testing.T) {
	rec, st, u := newRecorder(t)
	ctx := context.Background()

	cl, err := rec.RecordLogin(ctx, u.ID, "sess-1", "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	if cl.SessionID != "sess-1" || cl.UserID != u.ID {
		t.Fatalf("connection log = %+v", cl)
	}
	if cl.LogoutTime != nil || cl.SessionDuration != nil {
		t.Fatal("new session should be open")
	}
	if cl.Status != "success" {
		t.Fatalf("status = %q", cl.Status)
	}

	fresh, err := st.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if fresh.LastLogin == nil || !fresh.LastLogin.Equal(cl.Timestamp) {
		t.Fatalf("lastLogin = %v, want %v", fresh.LastLogin, cl.Timestamp)
	}
}

func TestRecordLogoutClosesSessionOnce(t *testing.T) {
	rec, _, u := newRecorder(t)
	ctx := context.Background()

	if _, err := rec.RecordLogin(ctx, u.ID, "sess-1", "", ""); err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	closed, err := rec.RecordLogout(ctx, u.ID, "sess-1")
	if err != nil {
		t.Fatalf("RecordLogout: %v", err)
	}
	if closed.LogoutTime == nil || closed.SessionDuration == nil {
		t.Fatal("logout fields not set")
	}
	if *closed.SessionDuration < 0 {
		t.Fatalf("sessionDuration = %d", *closed.SessionDuration)
	}

	// Second logout without an intervening login is a no-op.
	if _, err := rec.RecordLogout(ctx, u.ID, "sess-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("repeat logout err = %v, want ErrNotFound", err)
	}
}
