package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stevehodgkiss/interaction/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signUpYAML = `
commands:
  - name: SignUp
    schema:
      type: object
      required: [name]
      properties:
        name: {type: string, minLength: 1}
  - name: Log In
    key: login
    validations: false
`

func TestParseDefinitions(t *testing.T) {
	defs, err := config.ParseDefinitions([]byte(signUpYAML))
	require.NoError(t, err)
	require.Len(t, defs.Commands, 2)

	signUp, err := defs.Lookup("sign_up")
	require.NoError(t, err)
	assert.Equal(t, "SignUp", signUp.TypeDefinition().Name)
	assert.Equal(t, "sign_up", signUp.TypeDefinition().Key)
	assert.True(t, signUp.Capabilities().Validations)

	login, err := defs.Lookup("log in")
	require.NoError(t, err)
	assert.Equal(t, "login", login.Key)
	assert.False(t, login.Capabilities().Validations)

	_, err = defs.Lookup("nope")
	assert.ErrorIs(t, err, config.ErrUnknownCommand)
}

func TestCommandDefinition_CompileSchema(t *testing.T) {
	defs, err := config.ParseDefinitions([]byte(signUpYAML))
	require.NoError(t, err)

	schema, err := defs.Commands[0].CompileSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)

	res := schema.Validate(map[string]any{})
	assert.False(t, res.Valid())
	assert.Equal(t, []string{"is required"}, res.Errors().Get("name"))

	none, err := defs.Commands[1].CompileSchema()
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestParseDefinitions_Rejects(t *testing.T) {
	tests := map[string]string{
		"bad yaml":  "commands: [",
		"anonymous": "commands:\n  - validations: true\n",
		"bad key":   "commands:\n  - key: Sign-Up\n",
		"duplicate": "commands:\n  - name: SignUp\n  - key: sign_up\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.ParseDefinitions([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadAllDefinitions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("commands:\n  - name: SignUp\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("commands:\n  - name: LogIn\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	defs, err := config.LoadAllDefinitions(dir)
	require.NoError(t, err)
	require.Len(t, defs.Commands, 2)
	assert.Equal(t, "sign_up", defs.Commands[0].Key)
	assert.Equal(t, "log_in", defs.Commands[1].Key)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.yaml"), []byte("commands:\n  - key: sign_up\n"), 0o600))
	_, err = config.LoadAllDefinitions(dir)
	assert.Error(t, err)
}

func TestLoadDefinitions_MissingFile(t *testing.T) {
	_, err := config.LoadDefinitions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
