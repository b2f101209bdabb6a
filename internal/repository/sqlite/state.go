package sqlite

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/msomdec/pomodeck/internal/domain"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const stateKeyInfo = "pomodeck client state v1"

// StateRepository implements domain.StateStore on the client_state table.
type StateRepository struct {
	db   *sql.DB
	aead interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
		NonceSize() int
	}
}

// NewStateRepository creates a StateRepository. A non-empty secret derives
// an XChaCha20-Poly1305 key and every value written is sealed with it.
func NewStateRepository(db *DB, secret string) (*StateRepository, error) {
	repo := &StateRepository{db: db.SQLDB}
	if secret == "" {
		return repo, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(stateKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive state key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create state cipher: %w", err)
	}
	repo.aead = aead
	return repo, nil
}

func (r *StateRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	var sealed bool
	err := r.db.QueryRowContext(ctx,
		"SELECT value, sealed FROM client_state WHERE key = ?", key,
	).Scan(&value, &sealed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get client state: %w", err)
	}

	if !sealed {
		return value, nil
	}
	if r.aead == nil {
		return "", fmt.Errorf("get client state: value for %q is sealed and no secret is configured", key)
	}
	return r.open(key, value)
}

func (r *StateRepository) Set(ctx context.Context, key, value string) error {
	sealed := false
	if r.aead != nil {
		v, err := r.seal(key, value)
		if err != nil {
			return err
		}
		value, sealed = v, true
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO client_state (key, value, sealed, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, sealed = excluded.sealed, updated_at = excluded.updated_at`,
		key, value, sealed, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set client state: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *StateRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM client_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete client state: %w", err)
	}
	return nil
}

// seal encrypts value with the key name as additional data, so a sealed
// value cannot be moved to another key.
func (r *StateRepository) seal(key, value string) (string, error) {
	nonce := make([]byte, r.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := r.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return base64.StdEncoding.EncodeToString(out), nil
}

func (r *StateRepository) open(key, encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode sealed state: %w", err)
	}
	n := r.aead.NonceSize()
	if len(raw) < n {
		return "", errors.New("decode sealed state: value too short")
	}
	plain, err := r.aead.Open(nil, raw[:n], raw[n:], []byte(key))
	if err != nil {
		return "", fmt.Errorf("open sealed state: %w", err)
	}
	return string(plain), nil
}
