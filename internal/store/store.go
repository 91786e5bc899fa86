// Package store persists the companion's local state: the stable
// device identity and the user session written by the hosted agent UI
// through the storage endpoints.
package store

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UserDataKeys are the session fields the agent UI may store. Writes
// carrying none of them are rejected.
var UserDataKeys = []string{"agentname", "email", "access_token", "user_id", "prompt_id"}

// requiredURLKeys must all be present before a personalized agent URL
// is built; otherwise the default URL is used.
var requiredURLKeys = []string{"agentname", "user_id", "access_token", "email"}

// Store reads and writes local state below the data directory.
type Store struct {
	dataDir string
}

// New returns a Store rooted at dataDir. The directory is created
// lazily on first write.
func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) deviceIDFile() string {
	return filepath.Join(s.dataDir, "device_id.json")
}

func (s *Store) userDataFile() string {
	return filepath.Join(s.dataDir, "storage", "user_data.json")
}

// DeviceID returns the stable device identity, generating and
// persisting a new UUID on first use. A persist failure still returns
// the generated ID; the identity is then per-process.
func (s *Store) DeviceID() (string, error) {
	data, err := os.ReadFile(s.deviceIDFile())
	if err == nil {
		var rec struct {
			DeviceID string `json:"device_id"`
		}
		if jsonErr := json.Unmarshal(data, &rec); jsonErr == nil && rec.DeviceID != "" {
			return rec.DeviceID, nil
		}
	}

	id := uuid.NewString()
	payload, _ := json.Marshal(map[string]string{"device_id": id})
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return id, fmt.Errorf("create data dir: %w", err)
	}
	if err := writeFileAtomic(s.deviceIDFile(), payload); err != nil {
		return id, fmt.Errorf("persist device ID: %w", err)
	}
	return id, nil
}

// UserData returns the stored session fields. A missing file yields an
// empty map and no error; malformed JSON is an error.
func (s *Store) UserData() (map[string]string, error) {
	data, err := os.ReadFile(s.userDataFile())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read user data: %w", err)
	}

	// Values arrive from JS and may be numbers; normalize to strings.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse user data: %w", err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = trimFloat(val)
		case bool:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out, nil
}

// SetUserData replaces the stored session with exactly the given
// fields. Replacement is deliberate: a partial login never merges into
// a stale session.
func (s *Store) SetUserData(fields map[string]string) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("serialize user data: %w", err)
	}
	dir := filepath.Dir(s.userDataFile())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	return writeFileAtomic(s.userDataFile(), payload)
}

// AllRequiredKeysPresent reports whether userData carries every field
// needed to address the user's own agent page.
func AllRequiredKeysPresent(userData map[string]string) bool {
	for _, key := range requiredURLKeys {
		if userData[key] == "" {
			return false
		}
	}
	return true
}

// AgentURL builds the URL of the hosted agent UI. When the stored
// session carries all required fields the user's own agent page is
// addressed, with every parameter escaped; otherwise defaultURL is
// returned unchanged.
func AgentURL(defaultURL string, userData map[string]string) string {
	if !AllRequiredKeysPresent(userData) {
		return defaultURL
	}
	return fmt.Sprintf("https://hevolve.hertzai.com/agents/%s?email=%s&token=%s&userid=%s&companion=true",
		pathSegmentEscape(userData["agentname"]),
		url.QueryEscape(userData["email"]),
		url.QueryEscape(userData["access_token"]),
		url.QueryEscape(userData["user_id"]),
	)
}

// pathSegmentEscape percent-escapes a path segment. Spaces become %20
// and reserved characters like & are escaped, matching how the agent
// backend generates these URLs.
func pathSegmentEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// IsUserDataKey reports whether key is a recognized session field.
func IsUserDataKey(key string) bool {
	for _, k := range UserDataKeys {
		if k == key {
			return true
		}
	}
	return false
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
