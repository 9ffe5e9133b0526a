// Package fieldcrypt holds the sealed-field helpers shared by the engine
// adapters. Absent sensitive fields persist as the empty string and never
// pass through the encryptor, so an empty column can be told apart from an
// encrypted empty value.
package fieldcrypt

import (
	"encoding/json"

	"github.com/gagovictor/task-manager-sub000/internal/core/domain"
	"github.com/gagovictor/task-manager-sub000/internal/core/ports"
)

func EncryptField(enc ports.Encryptor, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return enc.Encrypt(value)
}

func DecryptField(enc ports.Encryptor, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return enc.Decrypt(value)
}

// EncryptChecklist serializes the checklist to JSON and encrypts it as one
// opaque blob. A nil or empty checklist persists as the empty string.
func EncryptChecklist(enc ports.Encryptor, items []domain.ChecklistItem) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return enc.Encrypt(string(raw))
}

func DecryptChecklist(enc ports.Encryptor, blob string) ([]domain.ChecklistItem, error) {
	if blob == "" {
		return nil, nil
	}
	raw, err := enc.Decrypt(blob)
	if err != nil {
		return nil, err
	}
	var items []domain.ChecklistItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}
