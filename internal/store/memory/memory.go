// Package memory implements store.Store with in-process maps. It is the
// default backend; all state is guarded by one RWMutex so multi-step
// operations (operation id assignment, the last-admin check) run without
// interleaving.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"decaptrack/internal/ids"
	"decaptrack/internal/models"
	"decaptrack/internal/store"
)

type Store struct {
	mu sync.RWMutex

	users       map[int]models.User
	machines    map[int]models.Machine
	operations  map[int]models.Operation
	incidents   map[int]models.SafetyIncident
	documents   map[int]models.Document
	activities  map[int]models.Activity
	connLogs    map[int]models.ConnectionLog

	userSeq     int
	machineSeq  int
	opSeq       int
	incidentSeq int
	documentSeq int
	activitySeq int
	connLogSeq  int

	opIDs *ids.DayCounter
}

func New() *Store {
	return &Store{
		users:      make(map[int]models.User),
		machines:   make(map[int]models.Machine),
		operations: make(map[int]models.Operation),
		incidents:  make(map[int]models.SafetyIncident),
		documents:  make(map[int]models.Document),
		activities: make(map[int]models.Activity),
		connLogs:   make(map[int]models.ConnectionLog),
		opIDs:      ids.NewDayCounter(),
	}
}

// Users

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id int) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return models.User{}, store.ErrDuplicateUsername
		}
	}
	s.userSeq++
	u.ID = s.userSeq
	u.LastLogin = nil
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int, patch models.UserPatch, passwordHash string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	if patch.Username != nil {
		for _, other := range s.users {
			if other.ID != id && other.Username == *patch.Username {
				return models.User{}, store.ErrDuplicateUsername
			}
		}
	}
	patch.Apply(&u)
	if passwordHash != "" {
		u.PasswordHash = passwordHash
	}
	s.users[id] = u
	return u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	if u.Role == models.RoleAdmin {
		admins := 0
		for _, other := range s.users {
			if other.Role == models.RoleAdmin {
				admins++
			}
		}
		if admins <= 1 {
			return store.ErrLastAdmin
		}
	}
	delete(s.users, id)
	return nil
}

func (s *Store) TouchUserLogin(ctx context.Context, id int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.LastLogin = &at
	s.users[id] = u
	return nil
}

// Machines

func (s *Store) ListMachines(ctx context.Context, method models.DecapingMethod) ([]models.Machine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Machine, 0, len(s.machines))
	for _, m := range s.machines {
		if method != "" && m.DecapingMethod != method {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetMachine(ctx context.Context, id int) (models.Machine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.machines[id]
	if !ok {
		return models.Machine{}, store.ErrNotFound
	}
	return m, nil
}

func (s *Store) CreateMachine(ctx context.Context, m models.Machine) (models.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machineSeq++
	m.ID = s.machineSeq
	s.machines[m.ID] = m
	return m, nil
}

func (s *Store) UpdateMachine(ctx context.Context, id int, patch models.MachinePatch) (models.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.machines[id]
	if !ok {
		return models.Machine{}, store.ErrNotFound
	}
	patch.Apply(&m)
	s.machines[id] = m
	return m, nil
}

// Operations

func (s *Store) ListOperations(ctx context.Context, method models.DecapingMethod) ([]models.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Operation, 0, len(s.operations))
	for _, op := range s.operations {
		if method != "" && op.DecapingMethod != method {
			continue
		}
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetOperation(ctx context.Context, id int) (models.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.operations[id]
	if !ok {
		return models.Operation{}, store.ErrNotFound
	}
	return op, nil
}

func (s *Store) GetOperationByOperationID(ctx context.Context, operationID string) (models.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, op := range s.operations {
		if op.OperationID == operationID {
			return op, nil
		}
	}
	return models.Operation{}, store.ErrNotFound
}

// CreateOperation assigns the numeric id, the day-scoped operation id and
// CreatedAt in one critical section.
func (s *Store) CreateOperation(ctx context.Context, op models.Operation) (models.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.opSeq++
	op.ID = s.opSeq
	op.OperationID = s.opIDs.Next(now)
	op.CreatedAt = now
	s.operations[op.ID] = op
	return op, nil
}

func (s *Store) UpdateOperation(ctx context.Context, id int, patch models.OperationPatch) (models.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.operations[id]
	if !ok {
		return models.Operation{}, store.ErrNotFound
	}
	patch.Apply(&op)
	s.operations[id] = op
	return op, nil
}

// Safety incidents

func (s *Store) ListSafetyIncidents(ctx context.Context) ([]models.SafetyIncident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SafetyIncident, 0, len(s.incidents))
	for _, si := range s.incidents {
		out = append(out, si)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetSafetyIncident(ctx context.Context, id int) (models.SafetyIncident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	si, ok := s.incidents[id]
	if !ok {
		return models.SafetyIncident{}, store.ErrNotFound
	}
	return si, nil
}

func (s *Store) CreateSafetyIncident(ctx context.Context, si models.SafetyIncident) (models.SafetyIncident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidentSeq++
	si.ID = s.incidentSeq
	si.CreatedAt = time.Now()
	s.incidents[si.ID] = si
	return si, nil
}

func (s *Store) UpdateSafetyIncident(ctx context.Context, id int, patch models.SafetyIncidentPatch) (models.SafetyIncident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	si, ok := s.incidents[id]
	if !ok {
		return models.SafetyIncident{}, store.ErrNotFound
	}
	patch.Apply(&si)
	s.incidents[id] = si
	return si, nil
}

// Documents

func (s *Store) ListDocuments(ctx context.Context) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Document, 0, len(s.documents))
	for _, d := range s.documents {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetDocument(ctx context.Context, id int) (models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	if !ok {
		return models.Document{}, store.ErrNotFound
	}
	return d, nil
}

func (s *Store) CreateDocument(ctx context.Context, d models.Document) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documentSeq++
	d.ID = s.documentSeq
	s.documents[d.ID] = d
	return d, nil
}

// Activities

func (s *Store) ListActivities(ctx context.Context, userID, limit int) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		if userID != 0 && a.UserID != userID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activitySeq++
	a.ID = s.activitySeq
	a.Timestamp = time.Now()
	if a.ActionStatus == "" {
		a.ActionStatus = "success"
	}
	s.activities[a.ID] = a
	return a, nil
}

// Connection logs

func (s *Store) ListConnectionLogs(ctx context.Context, userID, limit int) ([]models.ConnectionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ConnectionLog, 0, len(s.connLogs))
	for _, cl := range s.connLogs {
		if userID != 0 && cl.UserID != userID {
			continue
		}
		out = append(out, cl)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateConnectionLog(ctx context.Context, cl models.ConnectionLog) (models.ConnectionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connLogSeq++
	cl.ID = s.connLogSeq
	cl.Timestamp = time.Now()
	if cl.Status == "" {
		cl.Status = "success"
	}
	cl.LogoutTime = nil
	cl.SessionDuration = nil
	s.connLogs[cl.ID] = cl
	return cl, nil
}

// CloseConnectionLog stamps the logout time on the log matching sessionID, or
// on the newest open log for the user when sessionID is empty.
func (s *Store) CloseConnectionLog(ctx context.Context, userID int, sessionID string, at time.Time) (models.ConnectionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var target *models.ConnectionLog
	for id := range s.connLogs {
		cl := s.connLogs[id]
		if cl.UserID != userID || cl.LogoutTime != nil {
			continue
		}
		if sessionID != "" {
			if cl.SessionID == sessionID {
				target = &cl
				break
			}
			continue
		}
		if target == nil || cl.Timestamp.After(target.Timestamp) ||
			(cl.Timestamp.Equal(target.Timestamp) && cl.ID > target.ID) {
			target = &cl
		}
	}
	if target == nil {
		return models.ConnectionLog{}, store.ErrNotFound
	}
	logout := at
	duration := int(logout.Sub(target.Timestamp) / time.Second)
	if duration < 0 {
		duration = 0
	}
	target.LogoutTime = &logout
	target.SessionDuration = &duration
	s.connLogs[target.ID] = *target
	return *target, nil
}
