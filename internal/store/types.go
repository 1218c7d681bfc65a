package store

import (
	"errors"
	"fmt"
	"io/fs"
)

// Keys of the persisted document. The names are shared with older releases
// of the notifier, so they must not change.
const (
	KeyOptOut          = "optOut"
	KeyLastUpdateCheck = "lastUpdateCheck"
	KeyUpdate          = "update"
)

// UpdateResult is a lookup result handed from the background worker to the
// next run.
type UpdateResult struct {
	Latest  string `json:"latest"`
	Current string `json:"current"`
	Type    string `json:"type"`
	Name    string `json:"name"`
}

// CheckState is the typed view of one package's document.
type CheckState struct {
	OptOut          bool          `json:"optOut"`
	LastUpdateCheck int64         `json:"lastUpdateCheck"` // ms since epoch
	Update          *UpdateResult `json:"update,omitempty"`
}

// ErrAccess is matched by every AccessError.
var ErrAccess = errors.New("state store not accessible")

// AccessError reports a failure to create, read or write the state file.
type AccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

func (e *AccessError) Is(target error) bool { return target == ErrAccess }

// Permission reports whether the failure was a permission problem.
func (e *AccessError) Permission() bool {
	return errors.Is(e.Err, fs.ErrPermission)
}
