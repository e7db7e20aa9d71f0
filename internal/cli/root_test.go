package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/subly-core/internal/config"
	"github.com/dshills/subly-core/internal/docstore"
)

// execute runs the CLI with an isolated data dir and returns stdout
func execute(t *testing.T, opts *RootOptions, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	t.Setenv(config.EnvDataDir, t.TempDir())
	t.Setenv(config.EnvConfigFile, filepath.Join(t.TempDir(), "none.yaml"))

	cmd := newRootCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), ".env")}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func newICloudHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "Library", "Mobile Documents", "com~apple~CloudDocs"), 0o755))
	return home
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{Version: "1.2.3"})
	require.NotNil(t, cmd)
	assert.Equal(t, "subly", cmd.Use)
	assert.Equal(t, "1.2.3", cmd.Version)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{Version: "dev"})
	for _, path := range [][]string{
		{"serve"},
		{"migrate"},
		{"migrate", "status"},
		{"container", "url"},
		{"container", "read"},
		{"container", "write"},
		{"tray"},
	} {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			sub, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})

	db := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, db)
	assert.Equal(t, "", db.DefValue)

	envFile := cmd.PersistentFlags().Lookup("env-file")
	require.NotNil(t, envFile)
	assert.Equal(t, ".env", envFile.DefValue)
}

func TestVersionOutput(t *testing.T) {
	out, err := execute(t, &RootOptions{Build: BuildInfo{Version: "1.2.3", BuildTime: "today"}}, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: 1.2.3")
	assert.Contains(t, out, "SQLite Driver:")
}

func TestMigrateStatus_DoesNotCreateDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subly.db")

	out, err := execute(t, &RootOptions{}, "", "--db", dbPath, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "[pending]")
	assert.Contains(t, out, "create base tables")
	assert.Contains(t, out, "migration(s) pending")

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))
}

func TestMigrate_AppliesEverything(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subly.db")

	out, err := execute(t, &RootOptions{}, "", "--db", dbPath, "migrate")
	require.NoError(t, err)
	assert.NotContains(t, out, "[pending]")
	assert.Contains(t, out, "Schema is up to date")

	out, err = execute(t, &RootOptions{}, "", "--db", dbPath, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "[applied]")
	assert.Contains(t, out, "add currency rate history")
}

func TestContainer_WriteReadURL(t *testing.T) {
	home := newICloudHome(t)
	opts := func() *RootOptions { return &RootOptions{platform: "darwin", homeDir: home} }

	out, err := execute(t, opts(), "", "container", "url")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Library", "Mobile Documents", "com~apple~CloudDocs", "Subly")+"\n", out)

	_, err = execute(t, opts(), "", "container", "write", "a.json", `{"v":1}`)
	require.NoError(t, err)

	_, err = execute(t, opts(), "from stdin", "container", "write", "b.txt")
	require.NoError(t, err)

	out, err = execute(t, opts(), "", "container", "read", "a.json")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, out)

	out, err = execute(t, opts(), "", "container", "read", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", out)
}

func TestContainer_Errors(t *testing.T) {
	_, err := execute(t, &RootOptions{platform: "darwin", homeDir: newICloudHome(t)}, "", "container", "read", "missing.json")
	assert.ErrorIs(t, err, errDocumentNotFound)

	_, err = execute(t, &RootOptions{platform: "linux", homeDir: t.TempDir()}, "", "container", "url")
	assert.ErrorIs(t, err, docstore.ErrUnavailable)
}

func TestTrayCommand(t *testing.T) {
	out, err := execute(t, &RootOptions{platform: "darwin"}, "", "tray")
	require.NoError(t, err)
	assert.Equal(t, "tooltip: Subly\nshow\tOpen Subly\n---\nquit\tQuit\n", out)

	out, err = execute(t, &RootOptions{platform: "ios"}, "", "tray")
	require.NoError(t, err)
	assert.Equal(t, "no tray on ios\n", out)
}
