// Package store defines the persistence boundary shared by the in-memory and
// relational implementations.
package store

import (
	"context"
	"errors"
	"time"

	"decaptrack/internal/models"
)

var (
	// ErrNotFound is returned by lookups on an absent id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrLastAdmin is returned when deleting the only remaining admin.
	ErrLastAdmin = errors.New("cannot delete the last admin")
)

// Store owns every entity collection. Implementations assign ids starting at
// 1, incrementing per creation and never reused.
type Store interface {
	// Users
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UpdateUser(ctx context.Context, id int, patch models.UserPatch, passwordHash string) (models.User, error)
	DeleteUser(ctx context.Context, id int) error
	TouchUserLogin(ctx context.Context, id int, at time.Time) error

	// Machines
	ListMachines(ctx context.Context, method models.DecapingMethod) ([]models.Machine, error)
	GetMachine(ctx context.Context, id int) (models.Machine, error)
	CreateMachine(ctx context.Context, m models.Machine) (models.Machine, error)
	UpdateMachine(ctx context.Context, id int, patch models.MachinePatch) (models.Machine, error)

	// Operations. CreateOperation assigns the OP-YYYYMMDD-NNN identifier.
	ListOperations(ctx context.Context, method models.DecapingMethod) ([]models.Operation, error)
	GetOperation(ctx context.Context, id int) (models.Operation, error)
	GetOperationByOperationID(ctx context.Context, operationID string) (models.Operation, error)
	CreateOperation(ctx context.Context, op models.Operation) (models.Operation, error)
	UpdateOperation(ctx context.Context, id int, patch models.OperationPatch) (models.Operation, error)

	// Safety incidents
	ListSafetyIncidents(ctx context.Context) ([]models.SafetyIncident, error)
	GetSafetyIncident(ctx context.Context, id int) (models.SafetyIncident, error)
	CreateSafetyIncident(ctx context.Context, si models.SafetyIncident) (models.SafetyIncident, error)
	UpdateSafetyIncident(ctx context.Context, id int, patch models.SafetyIncidentPatch) (models.SafetyIncident, error)

	// Documents
	ListDocuments(ctx context.Context) ([]models.Document, error)
	GetDocument(ctx context.Context, id int) (models.Document, error)
	CreateDocument(ctx context.Context, d models.Document) (models.Document, error)

	// Activities, append-only
	ListActivities(ctx context.Context, userID, limit int) ([]models.Activity, error)
	CreateActivity(ctx context.Context, a models.Activity) (models.Activity, error)

	// Connection logs, append-only except the single logout transition
	ListConnectionLogs(ctx context.Context, userID, limit int) ([]models.ConnectionLog, error)
	CreateConnectionLog(ctx context.Context, cl models.ConnectionLog) (models.ConnectionLog, error)
	CloseConnectionLog(ctx context.Context, userID int, sessionID string, at time.Time) (models.ConnectionLog, error)
}
