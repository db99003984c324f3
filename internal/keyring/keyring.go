// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// Package keyring stores provider API keys encrypted at rest.
//
// Keys live in a single file encrypted with AES-256-GCM; the cipher key is
// derived from a passphrase with PBKDF2-SHA-256. The salt sits next to the
// key file. Both files are created 0600.
package keyring

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/Clueed/yakGPT/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// NonceSize is the AES-GCM nonce size (96 bits).
	NonceSize = 12

	// KeySize is the AES-256 key size.
	KeySize = 32

	// SaltSize is the PBKDF2 salt size.
	SaltSize = 32

	// Iterations follows the OWASP 2023 recommendation for PBKDF2-SHA-256.
	Iterations = 600000

	keysFile = "keys.enc"
	saltFile = "keys.salt"
)

// Well-known provider names.
const (
	ProviderOpenAI     = "openai"
	ProviderAzure      = "azure"
	ProviderElevenLabs = "elevenlabs"
)

var (
	// ErrKeyNotFound indicates no key is stored for the provider.
	ErrKeyNotFound = errors.New("no API key stored for provider")

	// ErrDecryptionFailed indicates a wrong passphrase or a tampered file.
	ErrDecryptionFailed = errors.New("decryption failed: wrong passphrase or corrupted keyring")
)

// =============================================================================
// KEYRING
// =============================================================================

// Keyring holds decrypted provider keys in memory and the cipher used to
// write them back.
type Keyring struct {
	mu   sync.RWMutex
	dir  string
	aead cipher.AEAD
	keys map[string]string
}

// DefaultDir returns the default keyring directory, ~/.yakgpt.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".yakgpt"), nil
}

// Open loads (or initializes) the keyring in dir using passphrase. A fresh
// directory gets a new random salt and an empty keyring; an existing one is
// decrypted, failing with ErrDecryptionFailed on a wrong passphrase.
func Open(dir, passphrase string) (*Keyring, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keyring directory: %w", err)
	}

	salt, err := loadOrCreateSalt(filepath.Join(dir, saltFile))
	if err != nil {
		return nil, err
	}

	key := pbkdf2.Key([]byte(passphrase), salt, Iterations, KeySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}

	k := &Keyring{dir: dir, aead: aead, keys: make(map[string]string)}
	if err := k.load(); err != nil {
		return nil, err
	}
	return k, nil
}

// Set stores (or replaces) the key for a provider and writes the keyring.
func (k *Keyring) Set(provider, apiKey string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[provider] = apiKey
	return k.save()
}

// Get returns the key stored for a provider.
func (k *Keyring) Get(provider string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	key, ok := k.keys[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, provider)
	}
	return key, nil
}

// Delete removes a provider's key. Deleting an absent key is a no-op.
func (k *Keyring) Delete(provider string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.keys[provider]; !ok {
		return nil
	}
	delete(k.keys, provider)
	return k.save()
}

// Providers lists providers with a stored key, sorted.
func (k *Keyring) Providers() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]string, 0, len(k.keys))
	for p := range k.keys {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func (k *Keyring) load() error {
	path := filepath.Join(k.dir, keysFile)
	blob, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read keyring: %w", err)
	}

	if len(blob) < NonceSize {
		return ErrDecryptionFailed
	}
	plaintext, err := k.aead.Open(nil, blob[:NonceSize], blob[NonceSize:], nil)
	if err != nil {
		return ErrDecryptionFailed
	}
	defer zeroBytes(plaintext)

	if err := json.Unmarshal(plaintext, &k.keys); err != nil {
		return fmt.Errorf("failed to parse keyring: %w", err)
	}
	return nil
}

// save encrypts the key map as nonce || ciphertext || tag and writes it
// atomically. Caller holds the lock.
func (k *Keyring) save() error {
	plaintext, err := json.Marshal(k.keys)
	if err != nil {
		return fmt.Errorf("failed to encode keyring: %w", err)
	}
	defer zeroBytes(plaintext)

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	blob := k.aead.Seal(nonce, nonce, plaintext, nil)
	if err := util.AtomicWriteFile(filepath.Join(k.dir, keysFile), blob, 0600); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func loadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil {
		if len(salt) != SaltSize {
			return nil, fmt.Errorf("salt file has wrong size: %d", len(salt))
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}

	salt = make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	if err := util.AtomicWriteFile(path, salt, 0600); err != nil {
		return nil, fmt.Errorf("failed to write salt: %w", err)
	}
	return salt, nil
}

// zeroBytes clears key material so it does not linger in memory.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
