package services

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/cryptox"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

const sealSaltLen = 16

// ErrBackupSealed is returned when a sealed backup is read without a
// passphrase.
var ErrBackupSealed = fmt.Errorf("%w: backup is sealed, a passphrase is required", common.ErrorValidation)

// jsonGet evaluates a JSONPath expression against a decoded document.
func jsonGet(path string, doc any) (any, bool) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, false
	}
	return v, true
}

// IsSealed reports whether data is a passphrase-sealed backup.
func IsSealed(data []byte) bool {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	v, ok := jsonGet("$.sealed", doc)
	return ok && v == true
}

// probeBackup checks the header of a plain backup document and returns its
// version.
func probeBackup(data []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", invalid("backup is not valid JSON: %v", err)
	}
	if v, ok := jsonGet("$.sealed", doc); ok && v == true {
		return "", ErrBackupSealed
	}

	ver, ok := jsonGet("$.version", doc)
	version, isString := ver.(string)
	if !ok || !isString || version == "" {
		return "", invalid("backup has no version")
	}

	user, ok := jsonGet("$.user", doc)
	if _, isObject := user.(map[string]any); !ok || !isObject {
		return "", invalid("backup has no user")
	}
	return version, nil
}

// DecodeBackup parses a plain backup document after checking its header.
func DecodeBackup(data []byte) (*models.BackupDocument, error) {
	if _, err := probeBackup(data); err != nil {
		return nil, err
	}
	var doc models.BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalid("backup is malformed: %v", err)
	}
	return &doc, nil
}

// EncodeBackup renders doc as indented JSON. With a non-empty passphrase
// the document is sealed instead.
func EncodeBackup(doc *models.BackupDocument, passphrase []byte) ([]byte, error) {
	if len(passphrase) > 0 {
		return SealBackup(doc, passphrase)
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return b, nil
}

// SealBackup encrypts doc with AES-GCM under a key derived from
// passphrase and a random salt.
func SealBackup(doc *models.BackupDocument, passphrase []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(sealSaltLen)
	key := cryptox.DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)

	data, nonce, err := cryptox.EncryptEntry(doc, key)
	if err != nil {
		return nil, fmt.Errorf("failed to seal backup: %w", err)
	}
	b, err := json.MarshalIndent(models.SealedBackup{Sealed: true, Salt: salt, Nonce: nonce, Data: data}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return b, nil
}

// OpenBackup returns the plain document bytes of data, decrypting it when
// it is sealed. A wrong passphrase yields common.ErrorUnauthorized.
func OpenBackup(data, passphrase []byte) ([]byte, error) {
	if !IsSealed(data) {
		return data, nil
	}
	if len(passphrase) == 0 {
		return nil, ErrBackupSealed
	}

	var sealed models.SealedBackup
	if err := json.Unmarshal(data, &sealed); err != nil {
		return nil, invalid("sealed backup is malformed: %v", err)
	}
	key := cryptox.DeriveMasterKey(passphrase, sealed.Salt)
	defer common.WipeByteArray(key)

	var plain json.RawMessage
	if err := cryptox.DecryptEntry(sealed.Data, sealed.Nonce, key, &plain); err != nil {
		return nil, fmt.Errorf("%w: cannot unseal backup", common.ErrorUnauthorized)
	}
	return plain, nil
}
