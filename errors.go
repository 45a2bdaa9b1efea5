package gifilter

import "fmt"

// DirectoryNotFoundError indicates the path given to FilterFiles does not
// resolve to an existing directory.
type DirectoryNotFoundError struct {
	Path string
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("directory not found: %s", e.Path)
}

// PermissionError indicates the root directory itself could not be
// enumerated. Permission failures deeper in the tree are absorbed and only
// logged; this error is reserved for the case that makes the whole scan
// meaningless.
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied reading %s: %v", e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }
