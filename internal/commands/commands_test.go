// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/schemaregistry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/avsc/avsctest"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/config"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/verify"
)

func noEnv(string) string { return "" }

type fakeRegistry struct {
	url      string
	subjects []string
	reject   string
	closed   bool
}

func (f *fakeRegistry) GetID(subject string, _ schemaregistry.SchemaInfo, _ bool) (int, error) {
	f.subjects = append(f.subjects, subject)
	if subject == f.reject {
		return -1, errors.New("subject not found")
	}
	return 1, nil
}

func (f *fakeRegistry) Close() error {
	f.closed = true
	return nil
}

func (f *fakeRegistry) factory(url string) (verify.Registry, error) {
	f.url = url
	return f, nil
}

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.PyprojectFileName), []byte(`[tool.faust_avro_code_gen]
schema_dir = "tests/schemas"
outfile = "fake_app/models.py"
schema_registry_url = "http://localhost:8082"
faust_app_models_module = "fake_app.models"
`), 0o600))

	schemaDir := filepath.Join(dir, "tests", "schemas")
	require.NoError(t, os.MkdirAll(schemaDir, 0o750))
	for _, name := range []string{"user", "blog_post"} {
		require.NoError(t, os.WriteFile(filepath.Join(schemaDir, name+".avsc"), avsctest.Raw(t, name), 0o600))
	}

	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, getenv func(string) string, reg *fakeRegistry, args ...string) (string, error) {
	t.Helper()
	var factory verify.ClientFactory
	if reg != nil {
		factory = reg.factory
	}
	cmd := NewRootCmd(getenv, factory)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_Generate(t *testing.T) {
	dir := setupProject(t)
	reg := &fakeRegistry{}

	out, err := execute(t, noEnv, reg)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "fake_app", "models.py"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "class BlogPost(AvroRecord):")
	assert.Contains(t, string(data), "class User(AvroRecord):")

	assert.Contains(t, out, filepath.Join("fake_app", "models.py"))
	assert.Contains(t, out, "Models generated")
	assert.NotContains(t, out, "fake_app.models")
	assert.Empty(t, reg.subjects, "registry must not be contacted without --verify")
}

func TestRoot_Verify(t *testing.T) {
	for _, flag := range []string{"--verify", "-v"} {
		t.Run(flag, func(t *testing.T) {
			setupProject(t)
			reg := &fakeRegistry{}

			out, err := execute(t, noEnv, reg, flag)
			require.NoError(t, err)

			assert.Equal(t, "http://localhost:8082", reg.url)
			assert.Equal(t, []string{"blog_post-value", "user-value"}, reg.subjects)
			assert.True(t, reg.closed)
			assert.Contains(t, out, "fake_app.models")
			assert.Contains(t, out, "Schemas verified")
		})
	}
}

func TestRoot_VerifyEnvOverride(t *testing.T) {
	setupProject(t)
	reg := &fakeRegistry{}

	getenv := func(key string) string {
		if key == config.EnvSchemaRegistryURL {
			return "http://env:8081"
		}
		return ""
	}

	_, err := execute(t, getenv, reg, "--verify")
	require.NoError(t, err)
	assert.Equal(t, "http://env:8081", reg.url)
}

func TestRoot_VerifyFails(t *testing.T) {
	dir := setupProject(t)
	reg := &fakeRegistry{reject: "blog_post-value"}

	_, err := execute(t, noEnv, reg, "--verify")
	assert.ErrorIs(t, err, verify.ErrSchemaNotVerifiable)
	assert.Equal(t, []string{"blog_post-value", "user-value"}, reg.subjects)

	// the module is still written before verification
	_, statErr := os.Stat(filepath.Join(dir, "fake_app", "models.py"))
	assert.NoError(t, statErr)
}

func TestRoot_UnsupportedSchema(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tests", "schemas", "blob.avsc"),
		[]byte(`{"type": "record", "name": "Blob", "fields": [{"name": "data", "type": "bytes"}]}`), 0o600))

	_, err := execute(t, noEnv, &fakeRegistry{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate models")

	_, statErr := os.Stat(filepath.Join(dir, "fake_app", "models.py"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRoot_SchemaDirMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, noEnv, &fakeRegistry{})
	assert.Error(t, err)
}

func TestInit_NonInteractive(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFile string
		want     *config.Settings
	}{
		{
			name:     "defaults",
			args:     []string{"init", "--non-interactive"},
			wantFile: config.FileName,
			want:     config.Default(),
		},
		{
			name: "flags",
			args: []string{
				"init", "--non-interactive",
				"--schema-dir", "avro",
				"--outfile", "app/models.py",
				"--schema-registry-url", "http://registry:8081",
				"--module", "app.models",
			},
			wantFile: config.FileName,
			want: &config.Settings{
				SchemaDir:            "avro",
				Outfile:              "app/models.py",
				SchemaRegistryURL:    "http://registry:8081",
				FaustAppModelsModule: "app.models",
			},
		},
		{
			name:     "yaml",
			args:     []string{"init", "--non-interactive", "--format", "yaml"},
			wantFile: "faust_avro_code_gen.yaml",
			want:     config.Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)

			out, err := execute(t, noEnv, nil, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "Initialization completed")

			got, err := config.LoadFile(filepath.Join(dir, tt.wantFile))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string)
		args    []string
		wantErr string
	}{
		{
			name: "already initialized",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(""), 0o600))
			},
			args:    []string{"init", "--non-interactive"},
			wantErr: "already exists",
		},
		{
			name:    "bad format",
			args:    []string{"init", "--non-interactive", "--format", "json"},
			wantErr: "unsupported format",
		},
		{
			name:    "bad module",
			args:    []string{"init", "--non-interactive", "--module", "app-models"},
			wantErr: "invalid configuration",
		},
		{
			name:    "bad registry url",
			args:    []string{"init", "--non-interactive", "--schema-registry-url", "localhost"},
			wantErr: "invalid configuration",
		},
		{
			name:    "empty outfile",
			args:    []string{"init", "--non-interactive", "--outfile", ""},
			wantErr: "outfile is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			_, err := execute(t, noEnv, nil, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, noEnv, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "faust-avro-codegen version")

	out, err = execute(t, noEnv, nil, "version", "--short")
	require.NoError(t, err)
	assert.NotContains(t, out, "faust-avro-codegen")
}
