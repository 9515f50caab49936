package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// credentialKey is the fixed storage key the API key lives under. A single
// credential is active at a time.
const credentialKey = "api_key"

// CredentialRecord is the stored form of the API key
type CredentialRecord struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// CredentialStorage implements the CredentialStore interface for Badger.
// The credential is the only piece of session state that survives a restart.
type CredentialStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCredentialStorage creates a new CredentialStorage instance
func NewCredentialStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CredentialStore {
	return &CredentialStorage{
		db:     db,
		logger: logger,
	}
}

// Get retrieves the stored API key
func (s *CredentialStorage) Get(ctx context.Context) (string, error) {
	var record CredentialRecord
	err := s.db.Store().Get(credentialKey, &record)
	if err == badgerhold.ErrNotFound {
		return "", interfaces.ErrCredentialNotSet
	}
	if err != nil {
		return "", fmt.Errorf("failed to get credential: %w", err)
	}

	return record.Value, nil
}

// Set stores the API key, replacing any existing value. The value is opaque
// to the client, no format validation happens here.
func (s *CredentialStorage) Set(ctx context.Context, value string) error {
	record := CredentialRecord{
		Key:       credentialKey,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	if err := s.db.Store().Upsert(credentialKey, &record); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	s.logger.Debug().Msg("Credential updated")
	return nil
}
