package credstore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gofrs/flock"
)

// PasswordEnv names the variable holding the file store password.
const PasswordEnv = "OPSYNC_STORE_PASSWORD"

const lockTimeout = 10 * time.Second

// FileStore implements Store with an AES-256-GCM encrypted JSON map. Reads and writes
// hold a lock file so concurrent opsync processes never interleave a read-modify-write.
type FileStore struct {
	path string
	lock *flock.Flock
	key  []byte

	// MachineKey is set when no password was given and the key was derived from
	// the user and host names.
	MachineKey bool
}

// NewFileStore creates a store at dir/credentials.enc.
func NewFileStore(dir, password string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create credentials directory: %w", err)
	}

	s := &FileStore{path: filepath.Join(dir, "credentials.enc")}
	s.lock = flock.New(s.path + ".lock")

	seed := password
	if seed == "" {
		hostname, _ := os.Hostname()
		username := os.Getenv("USER")
		if username == "" {
			username = os.Getenv("USERNAME")
		}
		seed = username + "@" + hostname
		s.MachineKey = true
	}
	sum := sha256.Sum256([]byte(seed))
	s.key = sum[:]

	return s, nil
}

// Get retrieves a credential by key.
func (s *FileStore) Get(key string) (string, error) {
	var value string
	err := s.withLock(false, func() error {
		creds, err := s.read()
		if err != nil {
			return err
		}
		v, ok := creds[key]
		if !ok {
			return ErrNotFound
		}
		value = v
		return nil
	})
	return value, err
}

// Set stores a credential.
func (s *FileStore) Set(key, value string) error {
	return s.withLock(true, func() error {
		creds, err := s.read()
		if err != nil {
			return err
		}
		creds[key] = value
		return s.write(creds)
	})
}

// Delete removes a credential.
func (s *FileStore) Delete(key string) error {
	return s.withLock(true, func() error {
		creds, err := s.read()
		if err != nil {
			return err
		}
		if _, ok := creds[key]; !ok {
			return ErrNotFound
		}
		delete(creds, key)
		return s.write(creds)
	})
}

// List returns the stored keys, sorted.
func (s *FileStore) List() ([]string, error) {
	var keys []string
	err := s.withLock(false, func() error {
		creds, err := s.read()
		if err != nil {
			return err
		}
		keys = make([]string, 0, len(creds))
		for k := range creds {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return nil
	})
	return keys, err
}

func (s *FileStore) withLock(exclusive bool, fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	var locked bool
	var err error
	if exclusive {
		locked, err = s.lock.TryLockContext(ctx, 100*time.Millisecond)
	} else {
		locked, err = s.lock.TryRLockContext(ctx, 100*time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("lock credentials file: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock credentials file: timeout")
	}
	defer s.lock.Unlock()

	return fn()
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(data) == 0) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	plaintext, err := s.open(data)
	if err != nil {
		return nil, fmt.Errorf("decrypt credentials: %w", err)
	}

	creds := make(map[string]string)
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return creds, nil
}

func (s *FileStore) write(creds map[string]string) error {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("serialize credentials: %w", err)
	}

	sealed, err := s.seal(plaintext)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, sealed, 0600); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	return nil
}

func (s *FileStore) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// seal encrypts plaintext and prepends the random nonce.
func (s *FileStore) seal(plaintext []byte) ([]byte, error) {
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *FileStore) open(data []byte) ([]byte, error) {
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}

	n := gcm.NonceSize()
	if len(data) < n {
		return nil, fmt.Errorf("ciphertext too short")
	}
	return gcm.Open(nil, data[:n], data[n:], nil)
}
