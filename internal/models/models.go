package models

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

// DecapingMethod is one of the three overburden-removal methods.
type DecapingMethod string

const (
	MethodTransport DecapingMethod = "transport"
	MethodPoussage  DecapingMethod = "poussage"
	MethodCasement  DecapingMethod = "casement"
)

func (m DecapingMethod) Valid() bool {
	return m == MethodTransport || m == MethodPoussage || m == MethodCasement
}

type MachineState string

const (
	StateRunning MachineState = "running"
	StateStopped MachineState = "stopped"
)

func (s MachineState) Valid() bool {
	return s == StateRunning || s == StateStopped
}

// MachineType enumerates the machine models operated on site.
type MachineType string

var machineTypes = map[MachineType]bool{
	"d11": true, "750011": true, "750012": true, "ph1": true, "ph2": true,
	"200b1": true, "libhere": true, "transwine": true, "procaneq": true,
}

func (t MachineType) Valid() bool { return machineTypes[t] }

type User struct {
	ID           int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	Role         Role       `gorm:"not null;default:supervisor" json:"role"`
	LastLogin    *time.Time `json:"lastLogin"`
}

type Machine struct {
	ID             int            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Type           MachineType    `gorm:"not null" json:"type"`
	DecapingMethod DecapingMethod `gorm:"not null;index" json:"decapingMethod"`
	Specifications string         `json:"specifications"`
	CurrentState   MachineState   `gorm:"not null;default:running" json:"currentState"`
	IsActive       bool           `gorm:"not null;default:true" json:"isActive"`
}

type Operation struct {
	ID              int            `gorm:"primaryKey;autoIncrement" json:"id"`
	OperationID     string         `gorm:"uniqueIndex;not null" json:"operationId"`
	Date            time.Time      `gorm:"not null" json:"date"`
	DecapingMethod  DecapingMethod `gorm:"not null;index" json:"decapingMethod"`
	MachineID       int            `gorm:"not null" json:"machineId"`
	Shift           int            `gorm:"not null" json:"shift"`
	Panel           string         `gorm:"not null" json:"panel"`
	Section         string         `gorm:"not null" json:"section"`
	Level           string         `gorm:"not null" json:"level"`
	MachineState    MachineState   `gorm:"not null" json:"machineState"`
	RunningHours    float64        `gorm:"not null" json:"runningHours"`
	StopHours       float64        `gorm:"not null" json:"stopHours"`
	ExcavatedVolume float64        `gorm:"not null" json:"excavatedVolume"`
	Observations    *string        `json:"observations"`
	UserID          int            `gorm:"not null" json:"userId"`
	CreatedAt       time.Time      `json:"createdAt"`

	// Transport
	DischargeDistance *float64 `json:"dischargeDistance"`
	TruckCount        *int     `json:"truckCount"`
	ExcavatorCount    *int     `json:"excavatorCount"`

	// Poussage
	BulldozerCount    *int     `json:"bulldozerCount"`
	EquipmentState    *string  `json:"equipmentState"`
	ExcavatedMeterage *float64 `json:"excavatedMeterage"`

	// Casement
	MachineCount     *int    `json:"machineCount"`
	InterventionType *string `json:"interventionType"`
}

type SafetyIncident struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Date         time.Time `gorm:"not null" json:"date"`
	IncidentType string    `gorm:"not null" json:"incidentType"`
	Description  string    `gorm:"not null" json:"description"`
	Severity     string    `gorm:"not null" json:"severity"`
	Location     string    `gorm:"not null" json:"location"`
	ReportedBy   int       `gorm:"not null" json:"reportedBy"`
	Status       string    `gorm:"not null" json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Document struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	FileType    string    `gorm:"not null" json:"fileType"`
	FileSize    float64   `gorm:"not null" json:"fileSize"`
	LastUpdated time.Time `gorm:"not null" json:"lastUpdated"`
	DownloadURL string    `gorm:"not null" json:"downloadUrl"`
	Category    string    `gorm:"not null" json:"category"`
}

// Activity is an append-only audit record of a user-triggered action.
type Activity struct {
	ID                int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Type              string    `gorm:"not null" json:"type"`
	Description       string    `gorm:"not null" json:"description"`
	UserID            int       `gorm:"not null;index" json:"userId"`
	Timestamp         time.Time `gorm:"not null" json:"timestamp"`
	RelatedEntityID   *int      `json:"relatedEntityId"`
	RelatedEntityType *string   `json:"relatedEntityType"`
	IPAddress         *string   `json:"ipAddress"`
	ActionStatus      string    `gorm:"not null;default:success" json:"actionStatus"`
}

// ConnectionLog records one login session. LogoutTime and SessionDuration are
// set exactly once, together, when the session closes.
type ConnectionLog struct {
	ID              int        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int        `gorm:"not null;index" json:"userId"`
	SessionID       string     `gorm:"size:36;index" json:"sessionId"`
	Timestamp       time.Time  `gorm:"not null" json:"timestamp"`
	IPAddress       *string    `json:"ipAddress"`
	UserAgent       *string    `json:"userAgent"`
	Status          string     `gorm:"not null;default:success" json:"status"`
	LogoutTime      *time.Time `json:"logoutTime"`
	SessionDuration *int       `json:"sessionDuration"`
}
