package config

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := flag.NewFlagSet("app-hook", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return f
}

const precedenceYaml = `
server:
  port: 9090
  route: /file
  value: from file
`

func TestResolve_FileOnly(t *testing.T) {
	path := writeFile(t, "config.yaml", precedenceYaml)

	cfg, err := Resolve(parseFlags(t, "-config", path))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/file", cfg.Server.Route)
	assert.Equal(t, "from file", cfg.Server.Value)
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", precedenceYaml)
	t.Setenv(EnvValue, "from env")
	t.Setenv(EnvPort, "7070")

	cfg, err := Resolve(parseFlags(t, "-config", path))
	require.NoError(t, err)
	assert.Equal(t, "from env", cfg.Server.Value)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/file", cfg.Server.Route)
}

func TestResolve_FlagsOverrideEnvAndFile(t *testing.T) {
	path := writeFile(t, "config.yaml", precedenceYaml)
	t.Setenv(EnvValue, "from env")
	t.Setenv(EnvRoute, "/env")

	cfg, err := Resolve(parseFlags(t, "-config", path, "-value", "from flag", "-port", "6060"))
	require.NoError(t, err)
	assert.Equal(t, "from flag", cfg.Server.Value)
	assert.Equal(t, 6060, cfg.Server.Port)
	// route flag not set, env wins over file
	assert.Equal(t, "/env", cfg.Server.Route)
}

func TestResolve_EmptyValueFlagOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", precedenceYaml)

	cfg, err := Resolve(parseFlags(t, "-config", path, "-value="))
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.Value)
}

func TestResolve_FlagFixesInvalidFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "server:\n  ulimit_nofile_soft: 20000\n  ulimit_nofile_hard: 100\n")

	cfg, err := Resolve(parseFlags(t, "-config", path, "-ulimit-nofile-hard", "20000"))
	require.NoError(t, err)
	assert.Equal(t, 20000, cfg.Server.UlimitNofileHard)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero ulimit", []string{"-ulimit-nofile-hard", "0", "-ulimit-nofile-soft", "0"}},
		{"negative ulimit", []string{"-ulimit-nofile-hard", "-1", "-ulimit-nofile-soft", "-1"}},
		{"route variable", []string{"-route", "/{any}"}},
		{"reserved route", []string{"-route", "/hook/stop"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(parseFlags(t, tt.args...))
			assert.Error(t, err)
		})
	}
}
