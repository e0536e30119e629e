package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AccessKeys are the object-store credentials read from the INI file. They
// are handed to the storage connector explicitly and never exported to the
// process environment.
type AccessKeys struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Empty reports whether no key id is set.
func (a AccessKeys) Empty() bool { return strings.TrimSpace(a.AccessKeyID) == "" }

// ErrNoCredentials is returned when the credentials file does not exist.
var ErrNoCredentials = errors.New("credentials file not found")

// LoadCredentials reads AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and the
// optional AWS_SESSION_TOKEN from section c.Section of the INI file c.File.
func LoadCredentials(c Credentials) (AccessKeys, error) {
	if strings.TrimSpace(c.File) == "" {
		return AccessKeys{}, ErrNoCredentials
	}
	section := strings.ToLower(strings.TrimSpace(c.Section))
	if section == "" {
		section = "aws"
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(c.File), INI()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return AccessKeys{}, fmt.Errorf("%w: %s", ErrNoCredentials, c.File)
		}
		return AccessKeys{}, fmt.Errorf("credentials: load %s: %w", c.File, err)
	}
	if !k.Exists(section) {
		return AccessKeys{}, fmt.Errorf("credentials: %s has no [%s] section", c.File, c.Section)
	}

	keys := AccessKeys{
		AccessKeyID:     k.String(section + ".aws_access_key_id"),
		SecretAccessKey: k.String(section + ".aws_secret_access_key"),
		SessionToken:    k.String(section + ".aws_session_token"),
	}
	if keys.Empty() || strings.TrimSpace(keys.SecretAccessKey) == "" {
		return AccessKeys{}, fmt.Errorf("credentials: [%s] in %s needs AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY", c.Section, c.File)
	}
	return keys, nil
}
