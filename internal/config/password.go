package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password hash-password accepts.
const MinPasswordLength = 8

// maxBcryptInput is the number of bytes bcrypt looks at.
const maxBcryptInput = 72

// ErrPasswordTooShort and ErrPasswordTooLong are returned by HashPassword.
var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = errors.New("password and pepper exceed 72 bytes")
)

// PasswordConfig holds configuration for operator password hashing.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional global secret appended before hashing
}

// NewPasswordConfig creates a new password configuration from environment variables.
// It reads BCRYPT_COST (default: 12) and optionally PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12" // default
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	config := &PasswordConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("PASSWORD_PEPPER"),
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword hashes an operator password for the config file.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	if len(pw) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	password := c.peppered(pw)
	if len(password) > maxBcryptInput {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword(password, c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw))
	return err == nil
}

// missHashes holds one throwaway hash per cost. It is compared against when
// the operator does not exist, so an unknown email costs the same as a wrong
// password.
var (
	missMu     sync.Mutex
	missHashes = map[int][]byte{}
)

func missHash(cost int) []byte {
	missMu.Lock()
	defer missMu.Unlock()
	if h, ok := missHashes[cost]; ok {
		return h
	}
	h, err := bcrypt.GenerateFromPassword([]byte("recruit-tracker-unknown-operator"), cost)
	if err != nil {
		return nil
	}
	missHashes[cost] = h
	return h
}

// RejectUnknown burns one bcrypt comparison and always returns false.
func (c *PasswordConfig) RejectUnknown(pw string) bool {
	_ = bcrypt.CompareHashAndPassword(missHash(c.BcryptCost), c.peppered(pw))
	return false
}
