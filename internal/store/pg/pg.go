// Package pg implements store.Store on Postgres via GORM. Selected when
// DATABASE_URL is set; the in-memory store remains the default backend.
package pg

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"decaptrack/internal/ids"
	"decaptrack/internal/models"
	"decaptrack/internal/store"
)

type Store struct {
	db    *gorm.DB
	opIDs *ids.DayCounter
}

// Open connects, migrates the schema and primes the operation id counter from
// rows already persisted for today.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Machine{}, &models.Operation{},
		&models.SafetyIncident{}, &models.Document{},
		&models.Activity{}, &models.ConnectionLog{},
	); err != nil {
		return nil, err
	}
	s := &Store{db: db, opIDs: ids.NewDayCounter()}
	now := time.Now()
	var existing []string
	if err := db.Model(&models.Operation{}).
		Where("operation_id LIKE ?", "OP-"+now.Format("20060102")+"-%").
		Pluck("operation_id", &existing).Error; err != nil {
		return nil, err
	}
	s.opIDs.Prime(now, existing)
	return s, nil
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

// Users

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

func (s *Store) GetUser(ctx context.Context, id int) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return u, mapErr(err)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error
	return u, mapErr(err)
}

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", u.Username).Count(&count).Error; err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, store.ErrDuplicateUsername
	}
	u.ID = 0
	u.LastLogin = nil
	err := s.db.WithContext(ctx).Create(&u).Error
	return u, err
}

func (s *Store) UpdateUser(ctx context.Context, id int, patch models.UserPatch, passwordHash string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return mapErr(err)
		}
		if patch.Username != nil {
			var count int64
			if err := tx.Model(&models.User{}).
				Where("username = ? AND id <> ?", *patch.Username, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return store.ErrDuplicateUsername
			}
		}
		patch.Apply(&u)
		if passwordHash != "" {
			u.PasswordHash = passwordHash
		}
		return tx.Save(&u).Error
	})
	return u, err
}

func (s *Store) DeleteUser(ctx context.Context, id int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return mapErr(err)
		}
		if u.Role == models.RoleAdmin {
			var admins int64
			if err := tx.Model(&models.User{}).
				Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return store.ErrLastAdmin
			}
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

func (s *Store) TouchUserLogin(ctx context.Context, id int, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).Update("last_login", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Machines

func (s *Store) ListMachines(ctx context.Context, method models.DecapingMethod) ([]models.Machine, error) {
	var machines []models.Machine
	q := s.db.WithContext(ctx).Order("id")
	if method != "" {
		q = q.Where("decaping_method = ?", method)
	}
	err := q.Find(&machines).Error
	return machines, err
}

func (s *Store) GetMachine(ctx context.Context, id int) (models.Machine, error) {
	var m models.Machine
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return m, mapErr(err)
}

func (s *Store) CreateMachine(ctx context.Context, m models.Machine) (models.Machine, error) {
	m.ID = 0
	err := s.db.WithContext(ctx).Create(&m).Error
	return m, err
}

func (s *Store) UpdateMachine(ctx context.Context, id int, patch models.MachinePatch) (models.Machine, error) {
	var m models.Machine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return mapErr(err)
		}
		patch.Apply(&m)
		return tx.Save(&m).Error
	})
	return m, err
}

// Operations

func (s *Store) ListOperations(ctx context.Context, method models.DecapingMethod) ([]models.Operation, error) {
	var ops []models.Operation
	q := s.db.WithContext(ctx).Order("id")
	if method != "" {
		q = q.Where("decaping_method = ?", method)
	}
	err := q.Find(&ops).Error
	return ops, err
}

func (s *Store) GetOperation(ctx context.Context, id int) (models.Operation, error) {
	var op models.Operation
	err := s.db.WithContext(ctx).First(&op, "id = ?", id).Error
	return op, mapErr(err)
}

func (s *Store) GetOperationByOperationID(ctx context.Context, operationID string) (models.Operation, error) {
	var op models.Operation
	err := s.db.WithContext(ctx).First(&op, "operation_id = ?", operationID).Error
	return op, mapErr(err)
}

func (s *Store) CreateOperation(ctx context.Context, op models.Operation) (models.Operation, error) {
	now := time.Now()
	op.ID = 0
	op.OperationID = s.opIDs.Next(now)
	op.CreatedAt = now
	err := s.db.WithContext(ctx).Create(&op).Error
	return op, err
}

func (s *Store) UpdateOperation(ctx context.Context, id int, patch models.OperationPatch) (models.Operation, error) {
	var op models.Operation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&op, "id = ?", id).Error; err != nil {
			return mapErr(err)
		}
		patch.Apply(&op)
		return tx.Save(&op).Error
	})
	return op, err
}

// Safety incidents

func (s *Store) ListSafetyIncidents(ctx context.Context) ([]models.SafetyIncident, error) {
	var incidents []models.SafetyIncident
	err := s.db.WithContext(ctx).Order("id").Find(&incidents).Error
	return incidents, err
}

func (s *Store) GetSafetyIncident(ctx context.Context, id int) (models.SafetyIncident, error) {
	var si models.SafetyIncident
	err := s.db.WithContext(ctx).First(&si, "id = ?", id).Error
	return si, mapErr(err)
}

func (s *Store) CreateSafetyIncident(ctx context.Context, si models.SafetyIncident) (models.SafetyIncident, error) {
	si.ID = 0
	si.CreatedAt = time.Now()
	err := s.db.WithContext(ctx).Create(&si).Error
	return si, err
}

func (s *Store) UpdateSafetyIncident(ctx context.Context, id int, patch models.SafetyIncidentPatch) (models.SafetyIncident, error) {
	var si models.SafetyIncident
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&si, "id = ?", id).Error; err != nil {
			return mapErr(err)
		}
		patch.Apply(&si)
		return tx.Save(&si).Error
	})
	return si, err
}

// Documents

func (s *Store) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	err := s.db.WithContext(ctx).Order("id").Find(&docs).Error
	return docs, err
}

func (s *Store) GetDocument(ctx context.Context, id int) (models.Document, error) {
	var d models.Document
	err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return d, mapErr(err)
}

func (s *Store) CreateDocument(ctx context.Context, d models.Document) (models.Document, error) {
	d.ID = 0
	err := s.db.WithContext(ctx).Create(&d).Error
	return d, err
}

// Activities

func (s *Store) ListActivities(ctx context.Context, userID, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	q := s.db.WithContext(ctx).Order("timestamp desc, id desc")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&activities).Error
	return activities, err
}

func (s *Store) CreateActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	a.ID = 0
	a.Timestamp = time.Now()
	if a.ActionStatus == "" {
		a.ActionStatus = "success"
	}
	err := s.db.WithContext(ctx).Create(&a).Error
	return a, err
}

// Connection logs

func (s *Store) ListConnectionLogs(ctx context.Context, userID, limit int) ([]models.ConnectionLog, error) {
	var logs []models.ConnectionLog
	q := s.db.WithContext(ctx).Order("timestamp desc, id desc")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&logs).Error
	return logs, err
}

func (s *Store) CreateConnectionLog(ctx context.Context, cl models.ConnectionLog) (models.ConnectionLog, error) {
	cl.ID = 0
	cl.Timestamp = time.Now()
	if cl.Status == "" {
		cl.Status = "success"
	}
	cl.LogoutTime = nil
	cl.SessionDuration = nil
	err := s.db.WithContext(ctx).Create(&cl).Error
	return cl, err
}

func (s *Store) CloseConnectionLog(ctx context.Context, userID int, sessionID string, at time.Time) (models.ConnectionLog, error) {
	var cl models.ConnectionLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("user_id = ? AND logout_time IS NULL", userID)
		if sessionID != "" {
			q = q.Where("session_id = ?", sessionID)
		}
		if err := q.Order("timestamp desc, id desc").First(&cl).Error; err != nil {
			return mapErr(err)
		}
		logout := at
		duration := int(logout.Sub(cl.Timestamp) / time.Second)
		if duration < 0 {
			duration = 0
		}
		cl.LogoutTime = &logout
		cl.SessionDuration = &duration
		return tx.Save(&cl).Error
	})
	return cl, err
}
