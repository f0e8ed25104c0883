// Package storage handles receipt image files. Persistence of the files is
// delegated either to the local filesystem (single-user mode) or to a
// managed storage bucket.
package storage

// Storage saves and serves receipt files.
type Storage interface {
	// Save stores a file and returns the URL or path it is reachable at.
	Save(name string, data []byte, contentType string) (string, error)

	// Get retrieves a previously saved file.
	Get(path string) ([]byte, error)

	// Delete removes a file.
	Delete(path string) error
}
