package services

import (
	"peacenest/internal/crypto"
	"peacenest/internal/models"
)

// EncryptionService wraps the cipher with domain-specific methods. A nil
// *EncryptionService leaves records untouched.
type EncryptionService struct {
	cipher *crypto.Cipher
}

// NewEncryptionService returns nil, nil when key is empty so callers can
// pass the result straight to the store.
func NewEncryptionService(key []byte) (*EncryptionService, error) {
	if len(key) == 0 {
		return nil, nil
	}
	c, err := crypto.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{cipher: c}, nil
}

// EncryptTracking encrypts sensitive tracking fields before storing in DB
func (s *EncryptionService) EncryptTracking(e *models.TrackingEntry) error {
	if s == nil || e.Notes == nil || *e.Notes == "" {
		return nil
	}
	enc, err := s.cipher.Encrypt(*e.Notes)
	if err != nil {
		return err
	}
	e.Notes = &enc
	return nil
}

// DecryptTracking decrypts sensitive tracking fields after retrieving from DB
func (s *EncryptionService) DecryptTracking(e *models.TrackingEntry) error {
	if s == nil || e.Notes == nil || *e.Notes == "" {
		return nil
	}
	dec, err := s.cipher.Decrypt(*e.Notes)
	if err != nil {
		return err
	}
	e.Notes = &dec
	return nil
}
