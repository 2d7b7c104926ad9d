package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"decaptrack/internal/models"
	"decaptrack/internal/store"
)

var ctx = context.Background()

func strPtr(s string) *string          { return &s }
func floatPtr(f float64) *float64      { return &f }
func statePtr(s models.MachineState) *models.MachineState { return &s }

func TestCreateThenGetReturnsSameRecord(t *testing.T) {
	s := New()
	in := models.Machine{
		Name:           "Bulldozer D11-1",
		Type:           "d11",
		DecapingMethod: models.MethodPoussage,
		Specifications: `{"power":"850 HP"}`,
		CurrentState:   models.StateRunning,
		IsActive:       true,
	}
	created, err := s.CreateMachine(ctx, in)
	if err != nil {
		t.Fatalf("CreateMachine: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("first machine id = %d", created.ID)
	}
	got, err := s.GetMachine(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetMachine: %v", err)
	}
	if got != created {
		t.Fatalf("got %+v, want %+v", got, created)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := New()
	if _, err := s.GetMachine(ctx, 99); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetOperation(ctx, 99); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetUser(ctx, 99); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestIDsIncrementAndAreNeverReused(t *testing.T) {
	s := New()
	a, _ := s.CreateUser(ctx, models.User{Username: "a", PasswordHash: "x", Name: "A", Role: models.RoleAdmin})
	b, _ := s.CreateUser(ctx, models.User{Username: "b", PasswordHash: "x", Name: "B", Role: models.RoleSupervisor})
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids = %d, %d", a.ID, b.ID)
	}
	if err := s.DeleteUser(ctx, b.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	c, _ := s.CreateUser(ctx, models.User{Username: "c", PasswordHash: "x", Name: "C", Role: models.RoleSupervisor})
	if c.ID != 3 {
		t.Fatalf("id after delete = %d, want 3", c.ID)
	}
}

func TestUpdateMachinePreservesUnpatchedFields(t *testing.T) {
	s := New()
	m, _ := s.CreateMachine(ctx, models.Machine{
		Name:           "Excavatrice PH1",
		Type:           "ph1",
		DecapingMethod: models.MethodCasement,
		Specifications: `{"capacity":"15 m³"}`,
		CurrentState:   models.StateRunning,
		IsActive:       true,
	})
	updated, err := s.UpdateMachine(ctx, m.ID, models.MachinePatch{CurrentState: statePtr(models.StateStopped)})
	if err != nil {
		t.Fatalf("UpdateMachine: %v", err)
	}
	if updated.CurrentState != models.StateStopped {
		t.Fatalf("currentState = %q", updated.CurrentState)
	}
	if updated.Name != m.Name || updated.Type != m.Type || updated.Specifications != m.Specifications || !updated.IsActive {
		t.Fatalf("unpatched fields changed: %+v", updated)
	}
}

func TestUpdateOperationPreservesUnpatchedFields(t *testing.T) {
	s := New()
	op, _ := s.CreateOperation(ctx, models.Operation{
		Date:            time.Now(),
		DecapingMethod:  models.MethodTransport,
		MachineID:       3,
		Shift:           2,
		Panel:           "P4",
		Section:         "T2",
		Level:           "N1",
		MachineState:    models.StateRunning,
		RunningHours:    8,
		StopHours:       0.5,
		ExcavatedVolume: 350,
		UserID:          1,
		DischargeDistance: floatPtr(2.4),
	})
	updated, err := s.UpdateOperation(ctx, op.ID, models.OperationPatch{
		RunningHours: floatPtr(7.5),
		Observations: strPtr("arrêt imprévu"),
	})
	if err != nil {
		t.Fatalf("UpdateOperation: %v", err)
	}
	if updated.RunningHours != 7.5 {
		t.Fatalf("runningHours = %v", updated.RunningHours)
	}
	if updated.Observations == nil || *updated.Observations != "arrêt imprévu" {
		t.Fatalf("observations = %v", updated.Observations)
	}
	if updated.Panel != "P4" || updated.Shift != 2 || updated.ExcavatedVolume != 350 ||
		updated.OperationID != op.OperationID || updated.UserID != 1 {
		t.Fatalf("unpatched fields changed: %+v", updated)
	}
	if updated.DischargeDistance == nil || *updated.DischargeDistance != 2.4 {
		t.Fatalf("dischargeDistance = %v", updated.DischargeDistance)
	}
}

func TestListByMethodFiltersExactly(t *testing.T) {
	s := New()
	s.CreateMachine(ctx, models.Machine{Name: "M1", Type: "d11", DecapingMethod: models.MethodPoussage, CurrentState: models.StateRunning})
	s.CreateMachine(ctx, models.Machine{Name: "M2", Type: "ph1", DecapingMethod: models.MethodCasement, CurrentState: models.StateRunning})
	s.CreateMachine(ctx, models.Machine{Name: "M3", Type: "d11", DecapingMethod: models.MethodPoussage, CurrentState: models.StateStopped})

	poussage, _ := s.ListMachines(ctx, models.MethodPoussage)
	if len(poussage) != 2 {
		t.Fatalf("poussage machines = %d", len(poussage))
	}
	all, _ := s.ListMachines(ctx, "")
	if len(all) != 3 {
		t.Fatalf("all machines = %d", len(all))
	}
	none, _ := s.ListMachines(ctx, "bogus")
	if len(none) != 0 {
		t.Fatalf("bogus method machines = %d", len(none))
	}
}

func TestOperationIDsSequenceWithinDay(t *testing.T) {
	s := New()
	today := time.Now().Format("20060102")
	for i := 1; i <= 3; i++ {
		op, err := s.CreateOperation(ctx, models.Operation{
			Date: time.Now(), DecapingMethod: models.MethodTransport, MachineID: 1,
			Shift: 1, Panel: "P1", Section: "T1", Level: "N1",
			MachineState: models.StateRunning, UserID: 1,
		})
		if err != nil {
			t.Fatalf("CreateOperation: %v", err)
		}
		want := fmt.Sprintf("OP-%s-%03d", today, i)
		if op.OperationID != want {
			t.Fatalf("operationId = %q, want %q", op.OperationID, want)
		}
		if op.CreatedAt.IsZero() {
			t.Fatal("createdAt not set")
		}
	}
	found, err := s.GetOperationByOperationID(ctx, "OP-"+today+"-002")
	if err != nil {
		t.Fatalf("GetOperationByOperationID: %v", err)
	}
	if found.ID != 2 {
		t.Fatalf("lookup returned id %d", found.ID)
	}
}

func TestDeleteLastAdminRejected(t *testing.T) {
	s := New()
	admin, _ := s.CreateUser(ctx, models.User{Username: "admin", PasswordHash: "x", Name: "Admin", Role: models.RoleAdmin})
	sup, _ := s.CreateUser(ctx, models.User{Username: "sup", PasswordHash: "x", Name: "Sup", Role: models.RoleSupervisor})

	if err := s.DeleteUser(ctx, admin.ID); !errors.Is(err, store.ErrLastAdmin) {
		t.Fatalf("delete last admin err = %v, want ErrLastAdmin", err)
	}
	if err := s.DeleteUser(ctx, sup.ID); err != nil {
		t.Fatalf("delete supervisor: %v", err)
	}

	second, _ := s.CreateUser(ctx, models.User{Username: "admin2", PasswordHash: "x", Name: "Admin2", Role: models.RoleAdmin})
	if err := s.DeleteUser(ctx, second.ID); err != nil {
		t.Fatalf("delete non-last admin: %v", err)
	}
	if err := s.DeleteUser(ctx, admin.ID); !errors.Is(err, store.ErrLastAdmin) {
		t.Fatalf("delete remaining admin err = %v, want ErrLastAdmin", err)
	}
}

func TestDuplicateUsernameRejected(t *testing.T) {
	s := New()
	s.CreateUser(ctx, models.User{Username: "admin", PasswordHash: "x", Name: "Admin", Role: models.RoleAdmin})
	if _, err := s.CreateUser(ctx, models.User{Username: "admin", PasswordHash: "x", Name: "Other", Role: models.RoleSupervisor}); !errors.Is(err, store.ErrDuplicateUsername) {
		t.Fatalf("err = %v, want ErrDuplicateUsername", err)
	}
}

func TestListActivitiesNewestFirstWithLimit(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		if _, err := s.CreateActivity(ctx, models.Activity{
			Type: "operation_created", Description: fmt.Sprintf("op %d", i), UserID: 1 + i%2,
		}); err != nil {
			t.Fatalf("CreateActivity: %v", err)
		}
	}

	all, _ := s.ListActivities(ctx, 0, 0)
	if len(all) != 5 {
		t.Fatalf("total activities = %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if cur.Timestamp.After(prev.Timestamp) {
			t.Fatal("activities not ordered newest-first")
		}
		if cur.Timestamp.Equal(prev.Timestamp) && cur.ID > prev.ID {
			t.Fatal("tied timestamps not ordered by descending id")
		}
	}

	limited, _ := s.ListActivities(ctx, 0, 2)
	if len(limited) != 2 {
		t.Fatalf("limited activities = %d", len(limited))
	}
	if limited[0].ID != all[0].ID || limited[1].ID != all[1].ID {
		t.Fatal("limit did not truncate after ordering")
	}

	byUser, _ := s.ListActivities(ctx, 1, 0)
	for _, a := range byUser {
		if a.UserID != 1 {
			t.Fatalf("user filter leaked activity for user %d", a.UserID)
		}
	}

	hugeLimit, _ := s.ListActivities(ctx, 0, 50)
	if len(hugeLimit) != 5 {
		t.Fatalf("limit beyond total = %d records", len(hugeLimit))
	}
}

func TestActivityDefaultsActionStatus(t *testing.T) {
	s := New()
	a, _ := s.CreateActivity(ctx, models.Activity{Type: "login", Description: "d", UserID: 1})
	if a.ActionStatus != "success" {
		t.Fatalf("actionStatus = %q", a.ActionStatus)
	}
}

func TestCloseConnectionLogBySession(t *testing.T) {
	s := New()
	first, _ := s.CreateConnectionLog(ctx, models.ConnectionLog{UserID: 1, SessionID: "sess-a"})
	second, _ := s.CreateConnectionLog(ctx, models.ConnectionLog{UserID: 1, SessionID: "sess-b"})

	closed, err := s.CloseConnectionLog(ctx, 1, "sess-a", time.Now().Add(90*time.Second))
	if err != nil {
		t.Fatalf("CloseConnectionLog: %v", err)
	}
	if closed.ID != first.ID {
		t.Fatalf("closed log %d, want %d", closed.ID, first.ID)
	}
	if closed.LogoutTime == nil || closed.SessionDuration == nil {
		t.Fatal("logout fields not set")
	}
	if *closed.SessionDuration != 90 {
		t.Fatalf("sessionDuration = %d, want 90", *closed.SessionDuration)
	}

	// sess-b is still open; closing without a session id picks it.
	closed, err = s.CloseConnectionLog(ctx, 1, "", time.Now())
	if err != nil {
		t.Fatalf("CloseConnectionLog fallback: %v", err)
	}
	if closed.ID != second.ID {
		t.Fatalf("fallback closed log %d, want %d", closed.ID, second.ID)
	}

	if _, err := s.CloseConnectionLog(ctx, 1, "", time.Now()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("closing with no open session err = %v, want ErrNotFound", err)
	}
}
