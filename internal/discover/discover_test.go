package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("//"), 0o600))
	}
	return dir
}

func TestFiles_DoubleStar(t *testing.T) {
	t.Parallel()
	dir := writeTree(t, "app.js", "routes/pets.js", "routes/v1/users.js", "routes/readme.md")

	got, err := Files(dir, []string{"**/*.js"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "app.js"),
		filepath.Join(dir, "routes", "pets.js"),
		filepath.Join(dir, "routes", "v1", "users.js"),
	}, got)
}

func TestFiles_DedupeKeepsFirstPosition(t *testing.T) {
	t.Parallel()
	dir := writeTree(t, "a.js", "b.yaml")

	got, err := Files(dir, []string{"./b.yaml", "*", "a.js"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "a.js"),
	}, got)
}

func TestFiles_Exclude(t *testing.T) {
	t.Parallel()
	dir := writeTree(t, "routes/pets.js", "node_modules/lib/index.js", "routes/pets.test.js")

	got, err := Files(dir, []string{"**/*.js"}, []string{"node_modules/**", "**.test.js"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "routes", "pets.js")}, got)
}

func TestFiles_DirectoriesAreSkipped(t *testing.T) {
	t.Parallel()
	dir := writeTree(t, "routes/pets.js")

	got, err := Files(dir, []string{"*"}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFiles_OutsideBaseDir(t *testing.T) {
	t.Parallel()
	dir := writeTree(t, "shared/defs.yaml", "app/index.js")

	got, err := Files(filepath.Join(dir, "app"), []string{"../shared/*.yaml"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "shared", "defs.yaml")}, got)
}

func TestFiles_BadExclude(t *testing.T) {
	t.Parallel()
	_, err := Files(t.TempDir(), []string{"*.js"}, []string{"[unclosed"})
	require.Error(t, err)
}

func TestCompile(t *testing.T) {
	t.Parallel()
	m, err := Compile("vendor/*.js")
	require.NoError(t, err)
	assert.Equal(t, "vendor/*.js", m.Pattern())
	assert.True(t, m.Match("vendor/a.js"))
	assert.False(t, m.Match("vendor/sub/a.js"))
}
