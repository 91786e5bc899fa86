package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDeviceIDStableAcrossReads(t *testing.T) {
	s := New(t.TempDir())

	first, err := s.DeviceID()
	if err != nil {
		t.Fatalf("first DeviceID: %v", err)
	}
	if first == "" {
		t.Fatal("empty device ID")
	}

	second, err := s.DeviceID()
	if err != nil {
		t.Fatalf("second DeviceID: %v", err)
	}
	if second != first {
		t.Errorf("device ID changed across reads: %q then %q", first, second)
	}
}

func TestDeviceIDRegeneratedWhenCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "device_id.json"), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(dir)
	id, err := s.DeviceID()
	if err != nil {
		t.Fatalf("DeviceID: %v", err)
	}
	if id == "" {
		t.Fatal("no device ID regenerated from corrupt file")
	}

	again, err := s.DeviceID()
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if again != id {
		t.Errorf("regenerated ID not persisted: %q then %q", id, again)
	}
}

func TestUserDataMissingFile(t *testing.T) {
	s := New(t.TempDir())
	data, err := s.UserData()
	if err != nil {
		t.Fatalf("UserData: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("missing file yielded %v", data)
	}
}

func TestSetUserDataReplacesExisting(t *testing.T) {
	s := New(t.TempDir())

	full := map[string]string{
		"agentname":    "Math-Tutor",
		"email":        "user@example.com",
		"access_token": "tok123",
		"user_id":      "10077",
	}
	if err := s.SetUserData(full); err != nil {
		t.Fatalf("SetUserData: %v", err)
	}

	// A later partial write overwrites completely, never merges.
	if err := s.SetUserData(map[string]string{"email": "other@example.com"}); err != nil {
		t.Fatalf("second SetUserData: %v", err)
	}

	data, err := s.UserData()
	if err != nil {
		t.Fatalf("UserData: %v", err)
	}
	if len(data) != 1 || data["email"] != "other@example.com" {
		t.Errorf("stored data = %v, want only the new email", data)
	}
}

func TestUserDataNormalizesNumbers(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	path := filepath.Join(dir, "storage", "user_data.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"user_id": 10077, "email": "u@example.com"}`), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := s.UserData()
	if err != nil {
		t.Fatalf("UserData: %v", err)
	}
	if data["user_id"] != "10077" {
		t.Errorf("user_id = %q, want %q", data["user_id"], "10077")
	}
}

func TestAgentURLRequiresAllFields(t *testing.T) {
	const fallback = "https://hevolve.hertzai.com/agents/Instructable-Agent?companion=true"

	if got := AgentURL(fallback, map[string]string{}); got != fallback {
		t.Errorf("empty session built %q", got)
	}

	partial := map[string]string{"agentname": "A", "email": "e", "user_id": "1"}
	if got := AgentURL(fallback, partial); got != fallback {
		t.Errorf("partial session built %q", got)
	}
}

func TestAgentURLEscapesFields(t *testing.T) {
	userData := map[string]string{
		"agentname":    "Math Tutor & Friends",
		"email":        "user+test@example.com",
		"access_token": "a/b=c",
		"user_id":      "10077",
	}
	got := AgentURL("fallback", userData)

	// The agent name is a path segment: spaces escape as %20, not +.
	if !strings.HasPrefix(got, "https://hevolve.hertzai.com/agents/Math%20Tutor%20%26%20Friends?") {
		t.Errorf("agent name not path-escaped: %q", got)
	}
	if !strings.Contains(got, "email=user%2Btest%40example.com") {
		t.Errorf("email not escaped: %q", got)
	}
	if !strings.Contains(got, "companion=true") {
		t.Errorf("companion marker missing: %q", got)
	}
}

func TestAllRequiredKeysPresent(t *testing.T) {
	complete := map[string]string{
		"agentname": "A", "email": "e", "access_token": "t", "user_id": "1",
	}
	if !AllRequiredKeysPresent(complete) {
		t.Error("complete session reported incomplete")
	}
	if AllRequiredKeysPresent(map[string]string{"agentname": "A", "email": "e"}) {
		t.Error("partial session reported complete")
	}
	// prompt_id is stored but not required for the URL.
	delete(complete, "user_id")
	complete["prompt_id"] = "p"
	if AllRequiredKeysPresent(complete) {
		t.Error("prompt_id must not substitute for a required key")
	}
}

func TestIsUserDataKey(t *testing.T) {
	if !IsUserDataKey("access_token") {
		t.Error("access_token not recognized")
	}
	if IsUserDataKey("password") {
		t.Error("unexpected key recognized")
	}
}
