package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CredentialRepository defines decoupled operations for credential persistence.
type CredentialRepository interface {
	Load(ctx context.Context) (*Session, error)
	Replace(ctx context.Context, s Session) error
	SetAccessToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// gormCredentialRepo is a GORM-backed implementation of CredentialRepository.
// Use constructor NewCredentialRepository to obtain an instance.
type gormCredentialRepo struct{ db *gorm.DB }

// NewCredentialRepository creates a CredentialRepository. Accepts *gorm.DB to avoid global access.
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &gormCredentialRepo{db: db}
}

func (r *gormCredentialRepo) Load(ctx context.Context) (*Session, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository not initialized")
	}
	var rows []Credential
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Name] = row.Value
	}
	s, ok := SessionFromValues(values)
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Replace swaps the whole mapping for the given session in one transaction.
func (r *gormCredentialRepo) Replace(ctx context.Context, s Session) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	values := s.Values()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Credential{}).Error; err != nil {
			return err
		}
		rows := make([]Credential, 0, len(SessionKeys))
		for _, key := range SessionKeys {
			rows = append(rows, Credential{Name: key, Value: values[key]})
		}
		return tx.Create(&rows).Error
	})
}

// SetAccessToken overwrites the access token row, leaving the rest of the mapping intact.
func (r *gormCredentialRepo) SetAccessToken(ctx context.Context, token string) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Credential{Name: KeyAccessToken, Value: token}).Error
}

func (r *gormCredentialRepo) Clear(ctx context.Context) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Credential{}).Error
}
