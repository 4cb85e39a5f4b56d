package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := `
log:
  level: error
jwt:
  secret: cli-secret
db:
  driver: sqlite
  dsn: "file:` + filepath.ToSlash(filepath.Join(dir, "app.db")) + `?_foreign_keys=on"
  logLevel: silent
export:
  dir: ` + filepath.ToSlash(filepath.Join(dir, "exports")) + `
`
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestOperatorFlow(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "")
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated")

	out, err = run(t, "--config", cfg, "create-superadmin", "--email", "Root@Example.com", "--password", "s3cret-pw")
	require.NoError(t, err)
	assert.Contains(t, out, "created super_admin 1 root@example.com")

	_, err = run(t, "--config", cfg, "create-superadmin", "--email", "root@example.com", "--password", "x")
	assert.Error(t, err)

	_, err = run(t, "--config", cfg, "create-superadmin")
	assert.Error(t, err)

	csv := filepath.Join(t.TempDir(), "artists.csv")
	require.NoError(t, os.WriteFile(csv, []byte(
		"first_name,last_name,email,password,phone,dob,gender,address,first_release_year,no_of_albums_released\n"+
			"Al,Green,al@example.com,pw,555,1946-04-13,m,Memphis,1967,30\n"+
			"Bo,Diddley,bo@example.com,pw,555,1928-12-30,m,Chicago,1955,12\n"), 0o600))
	out, err = run(t, "--config", cfg, "import", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 artists")

	// 同一文件再导一次：整批失败
	_, err = run(t, "--config", cfg, "import", csv)
	assert.Error(t, err)

	dst := filepath.Join(t.TempDir(), "out.csv")
	out, err = run(t, "--config", cfg, "export", "--out", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 2 artists")
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(b)), "\n"), 3)

	out, err = run(t, "--config", cfg, "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "id,user_id,first_name"), out)
	assert.Contains(t, out, "bo@example.com")
}

func TestImportRequiresFile(t *testing.T) {
	_, err := run(t, "import")
	assert.Error(t, err)
}

func TestCSVTemplate(t *testing.T) {
	out, err := run(t, "csv-template")
	require.NoError(t, err)
	assert.Equal(t, "first_name,last_name,email,password,phone,dob,gender,address,first_release_year,no_of_albums_released\n", out)
}
