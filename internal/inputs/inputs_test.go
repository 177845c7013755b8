package inputs_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/step-security/delete-deployment-environment/internal/inputs"
)

// clearEnv blanks every variable the loader reads so the host environment
// cannot leak into a case.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"INPUT_TOKEN", "INPUT_ENVIRONMENT", "INPUT_REF",
		"INPUT_ONLYREMOVEDEPLOYMENTS", "INPUT_ONLYDEACTIVATEDEPLOYMENTS",
		"GITHUB_TOKEN", "GITHUB_REPOSITORY", "GITHUB_API_URL", "GITHUB_WORKSPACE",
		"TOKEN", "ENVIRONMENT", "REF", "REPOSITORY", "WORKSPACE", "API_URL",
		"ONLY_REMOVE_DEPLOYMENTS", "ONLY_DEACTIVATE_DEPLOYMENTS",
	} {
		t.Setenv(name, "")
	}
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("token", "", "")
	fs.String("environment", "", "")
	fs.String("ref", "", "")
	fs.Bool("only-remove-deployments", false, "")
	fs.Bool("only-deactivate-deployments", false, "")
	fs.String("repository", "", "")
	fs.String("api-url", "", "")
	return fs
}

func TestOperationFlags(t *testing.T) {
	tests := []struct {
		onlyRemove     bool
		onlyDeactivate bool
		wantDeleteDeps bool
		wantDeleteEnv  bool
	}{
		{false, false, true, true},
		{true, false, true, false},
		{false, true, false, false},
		{true, true, false, false},
	}

	for _, tt := range tests {
		f := inputs.OperationFlags{
			OnlyRemoveDeployments:     tt.onlyRemove,
			OnlyDeactivateDeployments: tt.onlyDeactivate,
		}
		assert.Equal(t, tt.wantDeleteDeps, f.ShouldDeleteDeployments(), "remove=%v deactivate=%v", tt.onlyRemove, tt.onlyDeactivate)
		assert.Equal(t, tt.wantDeleteEnv, f.ShouldDeleteEnvironment(), "remove=%v deactivate=%v", tt.onlyRemove, tt.onlyDeactivate)
	}
}

func TestInputEnv(t *testing.T) {
	assert.Equal(t, "INPUT_TOKEN", inputs.InputEnv("token"))
	assert.Equal(t, "INPUT_ONLYREMOVEDEPLOYMENTS", inputs.InputEnv("onlyRemoveDeployments"))
	assert.Equal(t, "INPUT_MY_INPUT", inputs.InputEnv("my input"))
}

func TestLoad_FromActionInputs(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_TOKEN", "ghs_abc")
	t.Setenv("INPUT_ENVIRONMENT", " prod ")
	t.Setenv("INPUT_REF", "main")
	t.Setenv("INPUT_ONLYREMOVEDEPLOYMENTS", "true")
	t.Setenv("GITHUB_REPOSITORY", "octo/hello")

	v, err := inputs.NewViper(nil)
	require.NoError(t, err)

	in, err := inputs.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "ghs_abc", in.Token)
	assert.Equal(t, "prod", in.Environment)
	assert.Equal(t, "main", in.Ref)
	assert.True(t, in.Flags.OnlyRemoveDeployments)
	assert.False(t, in.Flags.OnlyDeactivateDeployments)
	assert.Equal(t, "octo/hello", in.Repository)
	assert.Equal(t, inputs.DefaultAPIURL, in.APIURL)
	assert.Equal(t, ".", in.Workspace)
}

func TestLoad_BooleansRequireLiteralTrue(t *testing.T) {
	for _, value := range []string{"TRUE", "True", "1", "yes", "false", ""} {
		t.Run(value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("INPUT_TOKEN", "x")
			t.Setenv("INPUT_ENVIRONMENT", "staging")
			t.Setenv("INPUT_ONLYDEACTIVATEDEPLOYMENTS", value)

			v, err := inputs.NewViper(nil)
			require.NoError(t, err)
			in, err := inputs.Load(v)
			require.NoError(t, err)
			assert.False(t, in.Flags.OnlyDeactivateDeployments)
		})
	}
}

func TestLoad_TokenFallsBackToGitHubToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "fallback")
	t.Setenv("INPUT_ENVIRONMENT", "staging")

	v, err := inputs.NewViper(nil)
	require.NoError(t, err)
	in, err := inputs.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "fallback", in.Token)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		errContains string
	}{
		{
			name:        "missing token",
			env:         map[string]string{"INPUT_ENVIRONMENT": "prod"},
			errContains: "token",
		},
		{
			name:        "missing environment",
			env:         map[string]string{"INPUT_TOKEN": "x"},
			errContains: "environment",
		},
		{
			name:        "blank environment",
			env:         map[string]string{"INPUT_TOKEN": "x", "INPUT_ENVIRONMENT": "   "},
			errContains: "environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, val := range tt.env {
				t.Setenv(k, val)
			}

			v, err := inputs.NewViper(nil)
			require.NoError(t, err)

			_, err = inputs.Load(v)
			require.Error(t, err)
			assert.ErrorIs(t, err, inputs.ErrMissingInput)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_TOKEN", "env-token")
	t.Setenv("INPUT_ENVIRONMENT", "env-environment")
	t.Setenv("GITHUB_REPOSITORY", "env/repo")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{
		"--environment", "flag-environment",
		"--only-deactivate-deployments",
		"--repository", "flag/repo",
		"--api-url", "https://ghe.example.com/api/v3",
	}))

	v, err := inputs.NewViper(fs)
	require.NoError(t, err)
	in, err := inputs.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "env-token", in.Token, "unset flag must not shadow env")
	assert.Equal(t, "flag-environment", in.Environment)
	assert.True(t, in.Flags.OnlyDeactivateDeployments)
	assert.False(t, in.Flags.OnlyRemoveDeployments)
	assert.Equal(t, "flag/repo", in.Repository)
	assert.Equal(t, "https://ghe.example.com/api/v3", in.APIURL)
}

func TestRepository(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_REPOSITORY", "octo/hello")

	v, err := inputs.NewViper(nil)
	require.NoError(t, err)
	assert.Equal(t, "octo/hello", inputs.Repository(v))
}
