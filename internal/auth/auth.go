package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/config"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Gate checks the single front-desk credential. The password is only kept
// as a bcrypt hash.
type Gate struct {
	username []byte
	hash     []byte
}

func NewGate(cfg config.AuthConfig) (*Gate, error) {
	return newGate(cfg, bcrypt.DefaultCost)
}

func newGate(cfg config.AuthConfig, cost int) (*Gate, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("auth: username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	return &Gate{username: []byte(cfg.Username), hash: hash}, nil
}

// Check returns ErrInvalidCredentials unless both values match.
func (g *Gate) Check(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), g.username) == 1
	// bcrypt runs even when the username is wrong
	passErr := bcrypt.CompareHashAndPassword(g.hash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
