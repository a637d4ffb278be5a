package credentials

import (
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/reelhouse/cli/pkg/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Credentials struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Load loads credentials from the configured path
func Load() (*Credentials, error) {
	return LoadFrom(config.GetCredentialsPath())
}

// LoadFrom loads credentials from path. A missing file yields nil, nil.
func LoadFrom(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Credentials don't exist yet
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

// Save saves credentials to the configured path
func Save(creds *Credentials) error {
	return SaveTo(config.GetCredentialsPath(), creds)
}

// SaveTo writes creds to path, owner read/write only
func SaveTo(path string, creds *Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Delete removes the configured credentials file. Deleting a missing file is
// not an error.
func Delete() error {
	return DeleteAt(config.GetCredentialsPath())
}

// DeleteAt removes the credentials file at path
func DeleteAt(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsExpired reports whether the recorded expiry has passed. Tokens without an
// exp claim never expire client-side.
func (c *Credentials) IsExpired() bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(c.ExpiresAt)
}

// IsValid checks if credentials are usable
func (c *Credentials) IsValid() bool {
	return c.Token != "" && !c.IsExpired()
}

// FileSource serves the stored token to a session
type FileSource struct {
	Path string
}

// NewFileSource returns a source on the configured credentials path
func NewFileSource() *FileSource {
	return &FileSource{Path: config.GetCredentialsPath()}
}

// Token returns the stored token, or "" when nothing is stored
func (f *FileSource) Token() (string, error) {
	creds, err := LoadFrom(f.Path)
	if err != nil || creds == nil {
		return "", err
	}
	return creds.Token, nil
}

// Clear deletes the stored credentials
func (f *FileSource) Clear() error {
	return DeleteAt(f.Path)
}
