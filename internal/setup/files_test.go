package setup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyExecutableReplacesDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.exe")
	dst := filepath.Join(dir, "sub", "dst.exe")

	if err := os.WriteFile(src, []byte("new build"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old build"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := CopyExecutable(src, dst); err != nil {
		t.Fatalf("CopyExecutable: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new build" {
		t.Errorf("destination content = %q, want %q", data, "new build")
	}
}

func TestReadVersionFile(t *testing.T) {
	dir := t.TempDir()
	if got := ReadVersionFile(dir); got != "" {
		t.Errorf("missing version file returned %q", got)
	}

	step := StepWriteVersionFile(dir, "1.2.0")
	if res := step.Action(); res.Err != nil {
		t.Fatalf("StepWriteVersionFile: %v", res.Err)
	}
	if got := ReadVersionFile(dir); got != "1.2.0" {
		t.Errorf("ReadVersionFile = %q, want %q", got, "1.2.0")
	}
}

func TestStepEnsureDirSkipsExisting(t *testing.T) {
	dir := t.TempDir()

	res := StepEnsureDir(filepath.Join(dir, "a", "b")).Action()
	if res.Err != nil || res.Skip {
		t.Fatalf("first run: skip=%v err=%v", res.Skip, res.Err)
	}

	res = StepEnsureDir(filepath.Join(dir, "a", "b")).Action()
	if res.Err != nil {
		t.Fatalf("second run: %v", res.Err)
	}
	if !res.Skip {
		t.Error("existing directory was not skipped")
	}
}

func TestStepRemoveDirBestEffort(t *testing.T) {
	dir := t.TempDir()
	logs := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logs, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(logs, "session.log"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	res := StepRemoveDirBestEffort("Remove logs", logs).Action()
	if res.Err != nil {
		t.Fatalf("remove: %v", res.Err)
	}
	if _, err := os.Stat(logs); !os.IsNotExist(err) {
		t.Error("log directory still present")
	}

	// Missing directory skips rather than failing.
	res = StepRemoveDirBestEffort("Remove logs", logs).Action()
	if res.Err != nil || !res.Skip {
		t.Errorf("missing dir: skip=%v err=%v", res.Skip, res.Err)
	}
}

func TestSimpleStepWrapsError(t *testing.T) {
	ran := false
	res := SimpleStep("noop", func() error { ran = true; return nil }).Action()
	if !ran || res.Err != nil || res.Skip {
		t.Errorf("noop step: ran=%v skip=%v err=%v", ran, res.Skip, res.Err)
	}

	res = SimpleStep("fail", func() error { return os.ErrPermission }).Action()
	if res.Err == nil {
		t.Error("error was swallowed")
	}
}
