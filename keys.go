package collector

import (
	"encoding/json"
	"os"

	"github.com/cnu-smr/reddit-collector/pkg/errors"
)

// DefaultKeysFile is where credentials are looked for by convention.
const DefaultKeysFile = "keys.json"

// Keys holds the API credentials loaded from the local key file.
type Keys struct {
	ClientID     string `json:"CLIENT_ID"`
	ClientSecret string `json:"SECRET_ID"`
}

// LoadKeys reads credentials from the JSON key file at path. A missing file is
// a fatal startup error; the returned ConfigError names the expected file and
// the working directory so a misplaced file can be diagnosed without
// re-running.
func LoadKeys(path string) (*Keys, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		wd, _ := os.Getwd()
		if os.IsNotExist(err) {
			return nil, &errors.ConfigError{
				Path:       path,
				WorkingDir: wd,
				Message:    "credential file not found, place it in the working directory",
				Err:        err,
			}
		}
		return nil, &errors.ConfigError{Path: path, WorkingDir: wd, Err: err}
	}

	var keys Keys
	if err := json.Unmarshal(data, &keys); err != nil {
		wd, _ := os.Getwd()
		return nil, &errors.ConfigError{
			Path:       path,
			WorkingDir: wd,
			Message:    "credential file is not valid JSON",
			Err:        err,
		}
	}

	if keys.ClientID == "" || keys.ClientSecret == "" {
		wd, _ := os.Getwd()
		return nil, &errors.ConfigError{
			Path:       path,
			WorkingDir: wd,
			Message:    "CLIENT_ID and SECRET_ID must both be set",
		}
	}

	return &keys, nil
}
