package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

var t0 = time.UnixMilli(1_700_000_000_000)

func TestOpen_InitializesDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "mytool", t0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if want := filepath.Join(dir, "configstore", "update-notifier-mytool.json"); s.Path() != want {
		t.Errorf("Path() = %q, want %q", s.Path(), want)
	}

	if !s.Created() {
		t.Error("first Open should report Created")
	}

	st, err := s.State()
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st.OptOut {
		t.Error("optOut should default to false")
	}
	if st.LastUpdateCheck != t0.UnixMilli() {
		t.Errorf("lastUpdateCheck = %d, want %d", st.LastUpdateCheck, t0.UnixMilli())
	}
	if st.Update != nil {
		t.Errorf("update should be absent, got %+v", st.Update)
	}
}

func TestOpen_KeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := FilePath(dir, "mytool")
	os.MkdirAll(filepath.Dir(path), 0700)
	os.WriteFile(path, []byte(`{"optOut":true,"lastUpdateCheck":42,"extra":"kept"}`), 0600)

	s, err := Open(dir, "mytool", t0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Created() {
		t.Error("existing document should not report Created")
	}
	st, _ := s.State()
	if !st.OptOut || st.LastUpdateCheck != 42 {
		t.Errorf("existing values overwritten: %+v", st)
	}
	extra, _ := s.Get("extra")
	if extra.String() != "kept" {
		t.Errorf("unknown field lost, got %q", extra.String())
	}
}

func TestOpen_CorruptFileIsReset(t *testing.T) {
	dir := t.TempDir()
	path := FilePath(dir, "mytool")
	os.MkdirAll(filepath.Dir(path), 0700)
	os.WriteFile(path, []byte(`{"optOut":tru`), 0600)

	s, err := Open(dir, "mytool", t0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	st, err := s.State()
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st.LastUpdateCheck != t0.UnixMilli() {
		t.Errorf("lastUpdateCheck = %d, want %d", st.LastUpdateCheck, t0.UnixMilli())
	}
}

func TestOpen_ScopedPackage(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "@scope/tool", t0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Errorf("expected file at %s: %v", s.Path(), err)
	}
}

func TestGetSetDelete(t *testing.T) {
	s, err := Open(t.TempDir(), "mytool", t0)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Set("update.latest", "2.0.0"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := s.Get("update.latest")
	if err != nil || !v.Exists() || v.String() != "2.0.0" {
		t.Fatalf("Get(update.latest) = %v, %v", v, err)
	}

	if err := s.Delete("update"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	v, _ = s.Get("update")
	if v.Exists() {
		t.Error("update should be gone after Delete")
	}
	if err := s.Delete("update"); err != nil {
		t.Errorf("deleting an absent key: %v", err)
	}
}

func TestTakeUpdate_AtMostOnce(t *testing.T) {
	s, err := Open(t.TempDir(), "mytool", t0)
	if err != nil {
		t.Fatal(err)
	}
	want := &UpdateResult{Latest: "2.0.0", Current: "1.0.0", Type: "major", Name: "mytool"}
	if err := s.RecordCheck(t0.Add(time.Hour), want); err != nil {
		t.Fatalf("RecordCheck: %v", err)
	}

	got, err := s.TakeUpdate()
	if err != nil {
		t.Fatalf("TakeUpdate: %v", err)
	}
	if got == nil || *got != *want {
		t.Fatalf("TakeUpdate() = %+v, want %+v", got, want)
	}

	again, err := s.TakeUpdate()
	if err != nil {
		t.Fatalf("second TakeUpdate: %v", err)
	}
	if again != nil {
		t.Errorf("second TakeUpdate() = %+v, want nil", again)
	}
}

func TestRecordCheck_TimestampOnly(t *testing.T) {
	s, err := Open(t.TempDir(), "mytool", t0)
	if err != nil {
		t.Fatal(err)
	}
	later := t0.Add(48 * time.Hour)
	if err := s.RecordCheck(later, nil); err != nil {
		t.Fatal(err)
	}
	st, _ := s.State()
	if st.LastUpdateCheck != later.UnixMilli() {
		t.Errorf("lastUpdateCheck = %d, want %d", st.LastUpdateCheck, later.UnixMilli())
	}
	if st.Update != nil {
		t.Errorf("update should stay absent, got %+v", st.Update)
	}
}

func TestWriteAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "mytool", t0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		s.SetOptOut(i%2 == 0)
	}
	entries, _ := os.ReadDir(filepath.Dir(s.Path()))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestReset(t *testing.T) {
	s, err := Open(t.TempDir(), "mytool", t0)
	if err != nil {
		t.Fatal(err)
	}
	s.SetOptOut(true)
	s.RecordCheck(t0, &UpdateResult{Latest: "9.9.9"})

	later := t0.Add(time.Minute)
	if err := s.Reset(later); err != nil {
		t.Fatal(err)
	}
	st, _ := s.State()
	if st.OptOut || st.Update != nil || st.LastUpdateCheck != later.UnixMilli() {
		t.Errorf("Reset left %+v", st)
	}
}

func TestOpen_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0700) })

	_, err := Open(dir, "mytool", t0)
	if !errors.Is(err, ErrAccess) {
		t.Fatalf("Open() error = %v, want ErrAccess", err)
	}
	var ae *AccessError
	if !errors.As(err, &ae) || !ae.Permission() {
		t.Errorf("expected a permission AccessError, got %#v", err)
	}
}

func TestPeek_DoesNotSeed(t *testing.T) {
	dir := t.TempDir()

	st, exists, err := Peek(dir, "mytool")
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if exists || st != (CheckState{}) {
		t.Errorf("Peek() on empty dir = %+v, exists=%v", st, exists)
	}
	if _, err := os.Stat(FilePath(dir, "mytool")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Peek created the state file: %v", err)
	}

	s, err := Open(dir, "mytool", t0)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Created() {
		t.Error("Open after Peek should still be the first run")
	}
	st, exists, err = Peek(dir, "mytool")
	if err != nil || !exists || st.LastUpdateCheck != t0.UnixMilli() {
		t.Errorf("Peek() after Open = %+v, exists=%v, err=%v", st, exists, err)
	}
}
