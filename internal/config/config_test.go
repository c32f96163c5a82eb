package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "mortpca/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noEnvFile points Load at a file that does not exist in an empty directory.
func noEnvFile(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	noEnvFile(t)
	t.Setenv("MORTALITY_FILE", "fixed.csv")
	t.Setenv("POPULATION_FILE", "leeftijdsopbouw.csv")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "fixed.csv", cfg.Data.MortalityFile)
	assert.Equal(t, "leeftijdsopbouw.csv", cfg.Data.PopulationFile)
	assert.Equal(t, "./out", cfg.Data.OutputDir)
	assert.Equal(t, "reject", cfg.Analysis.DuplicatePolicy)
	assert.Equal(t, 2, cfg.Analysis.Components)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_OverridesWin(t *testing.T) {
	noEnvFile(t)
	t.Setenv("MORTALITY_FILE", "env.csv")

	cfg, err := Load(Overrides{MortalityFile: "cli.csv", PopulationFile: "pop.csv", OutputDir: "report"})
	require.NoError(t, err)
	assert.Equal(t, "cli.csv", cfg.Data.MortalityFile)
	assert.Equal(t, "pop.csv", cfg.Data.PopulationFile)
	assert.Equal(t, "report", cfg.Data.OutputDir)
}

func TestLoad_EnvFile(t *testing.T) {
	noEnvFile(t)
	path := filepath.Join(t.TempDir(), "run.env")
	content := "MORTALITY_FILE=a.csv\nPOPULATION_FILE=b.csv\nDUPLICATE_POLICY=mean\nLOG_FORMAT=json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Cleanup(func() {
		for _, k := range []string{"MORTALITY_FILE", "POPULATION_FILE", "DUPLICATE_POLICY", "LOG_FORMAT"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(Overrides{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, "a.csv", cfg.Data.MortalityFile)
	assert.Equal(t, "mean", cfg.Analysis.DuplicatePolicy)
	assert.Equal(t, "json", cfg.Log.Format)

	_, err = Load(Overrides{EnvFile: filepath.Join(t.TempDir(), "absent.env")})
	assert.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	noEnvFile(t)
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing inputs", map[string]string{"MORTALITY_FILE": "", "POPULATION_FILE": ""}, "MortalityFile"},
		{"bad policy", map[string]string{"DUPLICATE_POLICY": "sum"}, "DuplicatePolicy"},
		{"one component", map[string]string{"COMPONENTS": "1"}, "Components"},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}, "Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MORTALITY_FILE", "a.csv")
			t.Setenv("POPULATION_FILE", "b.csv")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(Overrides{})
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MalformedNumber(t *testing.T) {
	noEnvFile(t)
	t.Setenv("MORTALITY_FILE", "a.csv")
	t.Setenv("POPULATION_FILE", "b.csv")
	t.Setenv("COMPONENTS", "two")

	_, err := Load(Overrides{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}
