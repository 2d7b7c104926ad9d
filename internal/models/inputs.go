package models

import (
	"strings"
	"time"
)

// FieldErrors maps offending field names to human-readable messages.
type FieldErrors map[string]string

func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

func (in *CreateUserInput) Validate() FieldErrors {
	fe := FieldErrors{}
	if strings.TrimSpace(in.Username) == "" {
		fe["username"] = "username is required"
	}
	if in.Password == "" {
		fe["password"] = "password is required"
	}
	if strings.TrimSpace(in.Name) == "" {
		fe["name"] = "name is required"
	}
	if in.Role == "" {
		in.Role = RoleSupervisor
	} else if !in.Role.Valid() {
		fe["role"] = "role must be admin or supervisor"
	}
	return fe
}

type UserPatch struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Role     *Role   `json:"role"`
}

func (p *UserPatch) Validate() FieldErrors {
	fe := FieldErrors{}
	if p.Username != nil && strings.TrimSpace(*p.Username) == "" {
		fe["username"] = "username must not be blank"
	}
	if p.Password != nil && *p.Password == "" {
		fe["password"] = "password must not be blank"
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		fe["name"] = "name must not be blank"
	}
	if p.Role != nil && !p.Role.Valid() {
		fe["role"] = "role must be admin or supervisor"
	}
	return fe
}

// Apply overwrites exactly the fields present in the patch. The password is
// applied by the store, which owns hashing.
func (p *UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}

type CreateMachineInput struct {
	Name           string         `json:"name"`
	Type           MachineType    `json:"type"`
	DecapingMethod DecapingMethod `json:"decapingMethod"`
	Specifications string         `json:"specifications"`
	CurrentState   MachineState   `json:"currentState"`
	IsActive       *bool          `json:"isActive"`
}

func (in *CreateMachineInput) Validate() FieldErrors {
	fe := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		fe["name"] = "name is required"
	}
	if !in.Type.Valid() {
		fe["type"] = "unknown machine type"
	}
	if !in.DecapingMethod.Valid() {
		fe["decapingMethod"] = "decapingMethod must be transport, poussage or casement"
	}
	if in.CurrentState == "" {
		in.CurrentState = StateRunning
	} else if !in.CurrentState.Valid() {
		fe["currentState"] = "currentState must be running or stopped"
	}
	return fe
}

func (in *CreateMachineInput) Machine() Machine {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Machine{
		Name:           in.Name,
		Type:           in.Type,
		DecapingMethod: in.DecapingMethod,
		Specifications: in.Specifications,
		CurrentState:   in.CurrentState,
		IsActive:       active,
	}
}

type MachinePatch struct {
	Name           *string         `json:"name"`
	Type           *MachineType    `json:"type"`
	DecapingMethod *DecapingMethod `json:"decapingMethod"`
	Specifications *string         `json:"specifications"`
	CurrentState   *MachineState   `json:"currentState"`
	IsActive       *bool           `json:"isActive"`
}

func (p *MachinePatch) Validate() FieldErrors {
	fe := FieldErrors{}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		fe["name"] = "name must not be blank"
	}
	if p.Type != nil && !p.Type.Valid() {
		fe["type"] = "unknown machine type"
	}
	if p.DecapingMethod != nil && !p.DecapingMethod.Valid() {
		fe["decapingMethod"] = "decapingMethod must be transport, poussage or casement"
	}
	if p.CurrentState != nil && !p.CurrentState.Valid() {
		fe["currentState"] = "currentState must be running or stopped"
	}
	return fe
}

func (p *MachinePatch) Apply(m *Machine) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.DecapingMethod != nil {
		m.DecapingMethod = *p.DecapingMethod
	}
	if p.Specifications != nil {
		m.Specifications = *p.Specifications
	}
	if p.CurrentState != nil {
		m.CurrentState = *p.CurrentState
	}
	if p.IsActive != nil {
		m.IsActive = *p.IsActive
	}
}

// CreateOperationInput carries the client-supplied fields of a new operation.
// OperationID, UserID and CreatedAt are server-assigned.
type CreateOperationInput struct {
	Date            time.Time      `json:"date"`
	DecapingMethod  DecapingMethod `json:"decapingMethod"`
	MachineID       int            `json:"machineId"`
	Shift           int            `json:"shift"`
	Panel           string         `json:"panel"`
	Section         string         `json:"section"`
	Level           string         `json:"level"`
	MachineState    MachineState   `json:"machineState"`
	RunningHours    float64        `json:"runningHours"`
	StopHours       float64        `json:"stopHours"`
	ExcavatedVolume float64        `json:"excavatedVolume"`
	Observations    *string        `json:"observations"`

	DischargeDistance *float64 `json:"dischargeDistance"`
	TruckCount        *int     `json:"truckCount"`
	ExcavatorCount    *int     `json:"excavatorCount"`
	BulldozerCount    *int     `json:"bulldozerCount"`
	EquipmentState    *string  `json:"equipmentState"`
	ExcavatedMeterage *float64 `json:"excavatedMeterage"`
	MachineCount      *int     `json:"machineCount"`
	InterventionType  *string  `json:"interventionType"`
}

func (in *CreateOperationInput) Validate() FieldErrors {
	fe := FieldErrors{}
	if in.Date.IsZero() {
		fe["date"] = "date is required"
	}
	if !in.DecapingMethod.Valid() {
		fe["decapingMethod"] = "decapingMethod must be transport, poussage or casement"
	}
	if in.MachineID <= 0 {
		fe["machineId"] = "machineId is required"
	}
	if in.Shift < 1 || in.Shift > 3 {
		fe["shift"] = "shift must be 1, 2 or 3"
	}
	if strings.TrimSpace(in.Panel) == "" {
		fe["panel"] = "panel is required"
	}
	if strings.TrimSpace(in.Section) == "" {
		fe["section"] = "section is required"
	}
	if strings.TrimSpace(in.Level) == "" {
		fe["level"] = "level is required"
	}
	if !in.MachineState.Valid() {
		fe["machineState"] = "machineState must be running or stopped"
	}
	if in.RunningHours < 0 {
		fe["runningHours"] = "runningHours must not be negative"
	}
	if in.StopHours < 0 {
		fe["stopHours"] = "stopHours must not be negative"
	}
	if in.ExcavatedVolume < 0 {
		fe["excavatedVolume"] = "excavatedVolume must not be negative"
	}
	return fe
}

func (in *CreateOperationInput) Operation() Operation {
	return Operation{
		Date:            in.Date,
		DecapingMethod:  in.DecapingMethod,
		MachineID:       in.MachineID,
		Shift:           in.Shift,
		Panel:           in.Panel,
		Section:         in.Section,
		Level:           in.Level,
		MachineState:    in.MachineState,
		RunningHours:    in.RunningHours,
		StopHours:       in.StopHours,
		ExcavatedVolume: in.ExcavatedVolume,
		Observations:    in.Observations,

		DischargeDistance: in.DischargeDistance,
		TruckCount:        in.TruckCount,
		ExcavatorCount:    in.ExcavatorCount,
		BulldozerCount:    in.BulldozerCount,
		EquipmentState:    in.EquipmentState,
		ExcavatedMeterage: in.ExcavatedMeterage,
		MachineCount:      in.MachineCount,
		InterventionType:  in.InterventionType,
	}
}

// OperationPatch lists the mutable fields of an operation. OperationID,
// UserID and CreatedAt cannot be patched.
type OperationPatch struct {
	Date            *time.Time      `json:"date"`
	DecapingMethod  *DecapingMethod `json:"decapingMethod"`
	MachineID       *int            `json:"machineId"`
	Shift           *int            `json:"shift"`
	Panel           *string         `json:"panel"`
	Section         *string         `json:"section"`
	Level           *string         `json:"level"`
	MachineState    *MachineState   `json:"machineState"`
	RunningHours    *float64        `json:"runningHours"`
	StopHours       *float64        `json:"stopHours"`
	ExcavatedVolume *float64        `json:"excavatedVolume"`
	Observations    *string         `json:"observations"`

	DischargeDistance *float64 `json:"dischargeDistance"`
	TruckCount        *int     `json:"truckCount"`
	ExcavatorCount    *int     `json:"excavatorCount"`
	BulldozerCount    *int     `json:"bulldozerCount"`
	EquipmentState    *string  `json:"equipmentState"`
	ExcavatedMeterage *float64 `json:"excavatedMeterage"`
	MachineCount      *int     `json:"machineCount"`
	InterventionType  *string  `json:"interventionType"`
}

func (p *OperationPatch) Validate() FieldErrors {
	fe := FieldErrors{}
	if p.Date != nil && p.Date.IsZero() {
		fe["date"] = "date must not be blank"
	}
	if p.DecapingMethod != nil && !p.DecapingMethod.Valid() {
		fe["decapingMethod"] = "decapingMethod must be transport, poussage or casement"
	}
	if p.MachineID != nil && *p.MachineID <= 0 {
		fe["machineId"] = "machineId must be positive"
	}
	if p.Shift != nil && (*p.Shift < 1 || *p.Shift > 3) {
		fe["shift"] = "shift must be 1, 2 or 3"
	}
	if p.MachineState != nil && !p.MachineState.Valid() {
		fe["machineState"] = "machineState must be running or stopped"
	}
	if p.RunningHours != nil && *p.RunningHours < 0 {
		fe["runningHours"] = "runningHours must not be negative"
	}
	if p.StopHours != nil && *p.StopHours < 0 {
		fe["stopHours"] = "stopHours must not be negative"
	}
	if p.ExcavatedVolume != nil && *p.ExcavatedVolume < 0 {
		fe["excavatedVolume"] = "excavatedVolume must not be negative"
	}
	return fe
}

func (p *OperationPatch) Apply(op *Operation) {
	if p.Date != nil {
		op.Date = *p.Date
	}
	if p.DecapingMethod != nil {
		op.DecapingMethod = *p.DecapingMethod
	}
	if p.MachineID != nil {
		op.MachineID = *p.MachineID
	}
	if p.Shift != nil {
		op.Shift = *p.Shift
	}
	if p.Panel != nil {
		op.Panel = *p.Panel
	}
	if p.Section != nil {
		op.Section = *p.Section
	}
	if p.Level != nil {
		op.Level = *p.Level
	}
	if p.MachineState != nil {
		op.MachineState = *p.MachineState
	}
	if p.RunningHours != nil {
		op.RunningHours = *p.RunningHours
	}
	if p.StopHours != nil {
		op.StopHours = *p.StopHours
	}
	if p.ExcavatedVolume != nil {
		op.ExcavatedVolume = *p.ExcavatedVolume
	}
	if p.Observations != nil {
		op.Observations = p.Observations
	}
	if p.DischargeDistance != nil {
		op.DischargeDistance = p.DischargeDistance
	}
	if p.TruckCount != nil {
		op.TruckCount = p.TruckCount
	}
	if p.ExcavatorCount != nil {
		op.ExcavatorCount = p.ExcavatorCount
	}
	if p.BulldozerCount != nil {
		op.BulldozerCount = p.BulldozerCount
	}
	if p.EquipmentState != nil {
		op.EquipmentState = p.EquipmentState
	}
	if p.ExcavatedMeterage != nil {
		op.ExcavatedMeterage = p.ExcavatedMeterage
	}
	if p.MachineCount != nil {
		op.MachineCount = p.MachineCount
	}
	if p.InterventionType != nil {
		op.InterventionType = p.InterventionType
	}
}

type CreateSafetyIncidentInput struct {
	Date         time.Time `json:"date"`
	IncidentType string    `json:"incidentType"`
	Description  string    `json:"description"`
	Severity     string    `json:"severity"`
	Location     string    `json:"location"`
	Status       string    `json:"status"`
}

func (in *CreateSafetyIncidentInput) Validate() FieldErrors {
	fe := FieldErrors{}
	if in.Date.IsZero() {
		fe["date"] = "date is required"
	}
	if strings.TrimSpace(in.IncidentType) == "" {
		fe["incidentType"] = "incidentType is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		fe["description"] = "description is required"
	}
	if strings.TrimSpace(in.Severity) == "" {
		fe["severity"] = "severity is required"
	}
	if strings.TrimSpace(in.Location) == "" {
		fe["location"] = "location is required"
	}
	if strings.TrimSpace(in.Status) == "" {
		fe["status"] = "status is required"
	}
	return fe
}

func (in *CreateSafetyIncidentInput) Incident() SafetyIncident {
	return SafetyIncident{
		Date:         in.Date,
		IncidentType: in.IncidentType,
		Description:  in.Description,
		Severity:     in.Severity,
		Location:     in.Location,
		Status:       in.Status,
	}
}

type SafetyIncidentPatch struct {
	Date         *time.Time `json:"date"`
	IncidentType *string    `json:"incidentType"`
	Description  *string    `json:"description"`
	Severity     *string    `json:"severity"`
	Location     *string    `json:"location"`
	Status       *string    `json:"status"`
}

func (p *SafetyIncidentPatch) Validate() FieldErrors {
	fe := FieldErrors{}
	if p.Date != nil && p.Date.IsZero() {
		fe["date"] = "date must not be blank"
	}
	if p.IncidentType != nil && strings.TrimSpace(*p.IncidentType) == "" {
		fe["incidentType"] = "incidentType must not be blank"
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		fe["description"] = "description must not be blank"
	}
	if p.Severity != nil && strings.TrimSpace(*p.Severity) == "" {
		fe["severity"] = "severity must not be blank"
	}
	if p.Location != nil && strings.TrimSpace(*p.Location) == "" {
		fe["location"] = "location must not be blank"
	}
	if p.Status != nil && strings.TrimSpace(*p.Status) == "" {
		fe["status"] = "status must not be blank"
	}
	return fe
}

func (p *SafetyIncidentPatch) Apply(si *SafetyIncident) {
	if p.Date != nil {
		si.Date = *p.Date
	}
	if p.IncidentType != nil {
		si.IncidentType = *p.IncidentType
	}
	if p.Description != nil {
		si.Description = *p.Description
	}
	if p.Severity != nil {
		si.Severity = *p.Severity
	}
	if p.Location != nil {
		si.Location = *p.Location
	}
	if p.Status != nil {
		si.Status = *p.Status
	}
}
