// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const pyprojectTOML = `[project]
name = "fake-app"

[tool.faust_avro_code_gen]
schema_dir = "tests/schemas"
outfile = "fake_app/models.py"
schema_registry_url = "http://localhost:8082"
faust_app_models_module = "models"
`

const standaloneTOML = `schema_dir = "tests/other_schemas"
outfile = "fake_app/models.py"
schema_registry_url = "http://localhost:8083"
faust_app_models_module = "models"
`

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		wantSource string
		want       *Settings
	}{
		{
			name:       "pyproject table",
			files:      map[string]string{PyprojectFileName: pyprojectTOML},
			wantSource: PyprojectFileName,
			want: &Settings{
				SchemaDir:            "tests/schemas",
				Outfile:              "fake_app/models.py",
				SchemaRegistryURL:    "http://localhost:8082",
				FaustAppModelsModule: "models",
			},
		},
		{
			name:       "standalone toml",
			files:      map[string]string{FileName: standaloneTOML},
			wantSource: FileName,
			want: &Settings{
				SchemaDir:            "tests/other_schemas",
				Outfile:              "fake_app/models.py",
				SchemaRegistryURL:    "http://localhost:8083",
				FaustAppModelsModule: "models",
			},
		},
		{
			name: "pyproject wins over standalone",
			files: map[string]string{
				PyprojectFileName: pyprojectTOML,
				FileName:          standaloneTOML,
			},
			wantSource: PyprojectFileName,
			want: &Settings{
				SchemaDir:            "tests/schemas",
				Outfile:              "fake_app/models.py",
				SchemaRegistryURL:    "http://localhost:8082",
				FaustAppModelsModule: "models",
			},
		},
		{
			name: "pyproject without table falls through",
			files: map[string]string{
				PyprojectFileName: "[project]\nname = \"fake-app\"\n",
				FileName:          standaloneTOML,
			},
			wantSource: FileName,
			want: &Settings{
				SchemaDir:            "tests/other_schemas",
				Outfile:              "fake_app/models.py",
				SchemaRegistryURL:    "http://localhost:8083",
				FaustAppModelsModule: "models",
			},
		},
		{
			name:       "yaml",
			files:      map[string]string{"faust_avro_code_gen.yaml": "schema_dir: avro\noutfile: app/models.py\n"},
			wantSource: "faust_avro_code_gen.yaml",
			want: &Settings{
				SchemaDir:            "avro",
				Outfile:              "app/models.py",
				SchemaRegistryURL:    DefaultSchemaRegistryURL,
				FaustAppModelsModule: DefaultFaustAppModelsModule,
			},
		},
		{
			name:       "partial toml takes defaults",
			files:      map[string]string{FileName: "outfile = \"out.py\"\n"},
			wantSource: FileName,
			want: &Settings{
				SchemaDir:            DefaultSchemaDir,
				Outfile:              "out.py",
				SchemaRegistryURL:    DefaultSchemaRegistryURL,
				FaustAppModelsModule: DefaultFaustAppModelsModule,
			},
		},
		{
			name:       "defaults",
			files:      nil,
			wantSource: "",
			want:       Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}

			got, source, err := Resolve(dir, noEnv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			wantSource := tt.wantSource
			if wantSource != "" {
				wantSource = filepath.Join(dir, wantSource)
			}
			assert.Equal(t, wantSource, source)
		})
	}
}

func TestResolve_InvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "broken pyproject", file: PyprojectFileName, content: "[tool\n"},
		{name: "unknown toml key", file: FileName, content: "schema_directory = \"x\"\n"},
		{name: "unknown yaml key", file: "faust_avro_code_gen.yml", content: "schemas: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, _, err := Resolve(dir, noEnv)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestResolve_EnvOverrides(t *testing.T) {
	t.Run("getenv", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, standaloneTOML)
		writeFile(t, dir, EnvFileName, EnvSchemaRegistryURL+"=http://dotenv:8081\n")

		getenv := func(key string) string {
			if key == EnvSchemaRegistryURL {
				return "http://env:8081"
			}
			return ""
		}

		got, _, err := Resolve(dir, getenv)
		require.NoError(t, err)
		assert.Equal(t, "http://env:8081", got.SchemaRegistryURL)
	})

	t.Run("dotenv", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, EnvFileName, "# local registry\n"+EnvSchemaRegistryURL+"=http://dotenv:8081\n")

		got, source, err := Resolve(dir, noEnv)
		require.NoError(t, err)
		assert.Equal(t, "", source)
		assert.Equal(t, "http://dotenv:8081", got.SchemaRegistryURL)
		assert.Equal(t, DefaultSchemaDir, got.SchemaDir)
	})

	t.Run("dotenv without key", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, EnvFileName, "OTHER=1\n")

		got, _, err := Resolve(dir, nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultSchemaRegistryURL, got.SchemaRegistryURL)
	})
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), FileName))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadFile_PyprojectWithoutTable(t *testing.T) {
	path := writeFile(t, t.TempDir(), PyprojectFileName, "[project]\nname = \"x\"\n")

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestSettings_SaveAndLoad(t *testing.T) {
	for _, name := range []string{FileName, "faust_avro_code_gen.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			s := &Settings{
				SchemaDir:            "avro",
				Outfile:              "app/models.py",
				SchemaRegistryURL:    "http://registry:8081",
				FaustAppModelsModule: "app.models",
			}

			require.NoError(t, s.Save(path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, s, loaded)
		})
	}
}

func TestSettings_SaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Default().Save(path))

	content, err := os.ReadFile(path) //nolint:gosec // test file path
	require.NoError(t, err)

	output := string(content)
	assert.Contains(t, output, "schema_dir = ")
	assert.Contains(t, output, "outfile = ")
	assert.Contains(t, output, "schema_registry_url = ")
	assert.Contains(t, output, "faust_app_models_module = ")
	assert.Contains(t, output, DefaultSchemaRegistryURL)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Settings) {}},
		{name: "missing schema dir", mutate: func(s *Settings) { s.SchemaDir = "" }, wantErr: "schema_dir is required"},
		{name: "missing outfile", mutate: func(s *Settings) { s.Outfile = "" }, wantErr: "outfile is required"},
		{name: "missing registry", mutate: func(s *Settings) { s.SchemaRegistryURL = "" }, wantErr: "schema_registry_url is required"},
		{name: "missing module", mutate: func(s *Settings) { s.FaustAppModelsModule = "" }, wantErr: "faust_app_models_module is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)

			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettings_Paths(t *testing.T) {
	s := &Settings{SchemaDir: "schemas", Outfile: "/abs/models.py"}

	assert.Equal(t, filepath.Join("/project", "schemas"), s.SchemaPath("/project"))
	assert.Equal(t, "/abs/models.py", s.OutfilePath("/project"))
}
