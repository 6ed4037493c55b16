package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/bytecodeman/addressesapi/internal/config"
	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/utils"
)

// BasicAuthProvider checks HTTP basic credentials against one configured account.
type BasicAuthProvider struct {
	username     string
	password     string
	passwordHash []byte
}

// NewBasicAuthProvider creates a provider from the auth settings.
// A bcrypt hash, when configured, takes precedence over the plaintext password.
func NewBasicAuthProvider(cfg *config.AuthSettings) (*BasicAuthProvider, error) {
	if cfg.Username == "" {
		return nil, errors.New("auth username is required")
	}

	p := &BasicAuthProvider{username: cfg.Username}

	switch {
	case cfg.PasswordHash != "":
		hash := []byte(cfg.PasswordHash)
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("invalid auth password hash: %w", err)
		}
		p.passwordHash = hash
	case cfg.Password != "":
		p.password = cfg.Password
	default:
		return nil, errors.New("auth password or password hash is required")
	}

	return p, nil
}

// Authenticate implements AuthProvider for the Basic scheme.
// A missing header is reported as 401; anything else that fails is 403.
func (p *BasicAuthProvider) Authenticate(r *http.Request) (string, error) {
	header := r.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return "", utils.NewAuthRequiredError()
	}

	username, password, err := parseBasicAuth(header)
	if err != nil {
		return "", utils.NewAuthRejectedError(err.Error())
	}

	if !p.verify(username, password) {
		return username, utils.NewAuthRejectedError("credentials mismatch")
	}

	return username, nil
}

// verify compares both parts of the credential without short-circuiting.
func (p *BasicAuthProvider) verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(p.username)) == 1

	var passOK bool
	if p.passwordHash != nil {
		passOK = bcrypt.CompareHashAndPassword(p.passwordHash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(p.password)) == 1
	}

	return userOK && passOK
}

// parseBasicAuth decodes "Basic base64(user:pass)". The password is everything
// after the first colon, so it may itself contain colons.
func parseBasicAuth(header string) (string, string, error) {
	scheme := constants.BasicAuthScheme
	if len(header) < len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", "", errors.New("unsupported authorization scheme")
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(scheme):]))
	if err != nil {
		return "", "", errors.New("credentials are not valid base64")
	}

	username, password, ok := strings.Cut(string(decoded), constants.CredentialSeparator)
	if !ok {
		return "", "", errors.New("credentials lack a separator")
	}

	return username, password, nil
}
