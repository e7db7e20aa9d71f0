package docstore

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

// AppFolder is the subdirectory of the sync root owned by the application
const AppFolder = "Subly"

// ErrUnavailable is returned when the cloud container cannot be resolved
var ErrUnavailable = errors.New("cloud container is not available")

// Options configures a Store. Zero values select the running platform.
type Options struct {
	// Platform is a runtime.GOOS value
	Platform string
	// HomeDir overrides the user's home directory
	HomeDir string
	Logger  *slog.Logger
}

// Store reads and writes documents in the cloud-synced container.
// Availability is resolved again on every call.
type Store struct {
	platform string
	homeDir  func() (string, error)
	logger   *slog.Logger
}

// New creates a Store
func New(opts Options) *Store {
	s := &Store{
		platform: opts.Platform,
		homeDir:  os.UserHomeDir,
		logger:   opts.Logger,
	}
	if s.platform == "" {
		s.platform = runtime.GOOS
	}
	if opts.HomeDir != "" {
		home := opts.HomeDir
		s.homeDir = func() (string, error) { return home, nil }
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "docstore")
	return s
}

// Supported reports whether platform has a cloud documents convention
func Supported(platform string) bool {
	_, ok := syncRootPath(platform, "")
	return ok
}

// syncRootPath returns the sync root under home for platform
func syncRootPath(platform, home string) (string, bool) {
	switch platform {
	case "darwin":
		return filepath.Join(home, "Library", "Mobile Documents", "com~apple~CloudDocs"), true
	default:
		return "", false
	}
}

// ResolveContainer returns the application's container directory. It
// reports false when the platform has no convention, the sync root does not
// exist, or the application folder cannot be created. Creating that folder
// is the only side effect.
func (s *Store) ResolveContainer() (string, bool) {
	if !Supported(s.platform) {
		return "", false
	}

	home, err := s.homeDir()
	if err != nil || home == "" {
		s.logger.Debug("home directory unavailable", "error", err)
		return "", false
	}

	root, _ := syncRootPath(s.platform, home)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", false
	}

	dir := filepath.Join(root, AppFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Debug("failed to create container folder", "path", dir, "error", err)
		return "", false
	}
	return dir, true
}

// Write creates or overwrites filename with contents. Concurrent writers are
// not coordinated; the last write wins.
func (s *Store) Write(filename, contents string) error {
	dir, ok := s.ResolveContainer()
	if !ok {
		return ErrUnavailable
	}
	return os.WriteFile(filepath.Join(dir, filename), []byte(contents), 0o644)
}

// Read returns the contents of filename. found is false, with a nil error,
// when the container is available but the document does not exist.
func (s *Store) Read(filename string) (contents string, found bool, err error) {
	dir, ok := s.ResolveContainer()
	if !ok {
		return "", false, ErrUnavailable
	}

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}
