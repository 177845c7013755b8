package inputs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrMissingInput is returned when a required input is empty
var ErrMissingInput = errors.New("input required and not supplied")

// DefaultAPIURL is the public GitHub REST endpoint
const DefaultAPIURL = "https://api.github.com/"

// Binding ties a configuration key to its action input, CLI flag and any
// fallback environment variables
type Binding struct {
	Key      string
	Input    string
	Flag     string
	Required bool
	Fallback []string
}

// Bindings lists every input declared in action.yml
var Bindings = []Binding{
	{Key: "token", Input: "token", Flag: "token", Required: true, Fallback: []string{"GITHUB_TOKEN"}},
	{Key: "environment", Input: "environment", Flag: "environment", Required: true},
	{Key: "ref", Input: "ref", Flag: "ref"},
	{Key: "only_remove_deployments", Input: "onlyRemoveDeployments", Flag: "only-remove-deployments"},
	{Key: "only_deactivate_deployments", Input: "onlyDeactivateDeployments", Flag: "only-deactivate-deployments"},
}

// runnerBindings are provided by the Actions runner rather than action.yml
var runnerBindings = []Binding{
	{Key: "repository", Flag: "repository", Fallback: []string{"GITHUB_REPOSITORY"}},
	{Key: "api_url", Flag: "api-url", Fallback: []string{"GITHUB_API_URL"}},
	{Key: "workspace", Fallback: []string{"GITHUB_WORKSPACE"}},
}

// Inputs is the resolved, immutable configuration of a single run
type Inputs struct {
	Token       string
	Environment string
	Ref         string
	Flags       OperationFlags

	Repository string
	APIURL     string
	Workspace  string
}

// OperationFlags holds the two user-facing switches that narrow the cleanup
type OperationFlags struct {
	OnlyRemoveDeployments     bool
	OnlyDeactivateDeployments bool
}

// ShouldDeleteDeployments reports whether deployment records are deleted
// after being deactivated
func (f OperationFlags) ShouldDeleteDeployments() bool {
	return !f.OnlyDeactivateDeployments
}

// ShouldDeleteEnvironment reports whether the environment itself is deleted
func (f OperationFlags) ShouldDeleteEnvironment() bool {
	return !f.OnlyRemoveDeployments && !f.OnlyDeactivateDeployments
}

// InputEnv returns the environment variable the Actions runner uses for an input
func InputEnv(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// NewViper binds every input to its environment variables and, when flags
// is non-nil, to the matching CLI flag. Flags only win when explicitly set.
func NewViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("workspace", ".")

	all := append(append([]Binding{}, Bindings...), runnerBindings...)
	for _, b := range all {
		envs := []string{b.Key}
		if b.Input != "" {
			envs = append(envs, InputEnv(b.Input))
		}
		envs = append(envs, b.Fallback...)
		if err := v.BindEnv(envs...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", b.Key, err)
		}

		if flags == nil || b.Flag == "" {
			continue
		}
		if f := flags.Lookup(b.Flag); f != nil {
			if err := v.BindPFlag(b.Key, f); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", b.Flag, err)
			}
		}
	}

	return v, nil
}

// Load resolves and validates the inputs of a run
func Load(v *viper.Viper) (Inputs, error) {
	in := Inputs{
		Token:       stringValue(v, "token"),
		Environment: stringValue(v, "environment"),
		Ref:         stringValue(v, "ref"),
		Flags: OperationFlags{
			OnlyRemoveDeployments:     boolValue(v, "only_remove_deployments"),
			OnlyDeactivateDeployments: boolValue(v, "only_deactivate_deployments"),
		},
		Repository: stringValue(v, "repository"),
		APIURL:     stringValue(v, "api_url"),
		Workspace:  stringValue(v, "workspace"),
	}

	for _, b := range Bindings {
		if b.Required && stringValue(v, b.Key) == "" {
			return Inputs{}, fmt.Errorf("%w: %s", ErrMissingInput, b.Input)
		}
	}

	return in, nil
}

// Repository returns the raw repository identifier without validating the
// rest of the inputs
func Repository(v *viper.Viper) string {
	return stringValue(v, "repository")
}

func stringValue(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

// Only the literal "true" enables a switch, matching how workflow inputs
// are compared.
func boolValue(v *viper.Viper, key string) bool {
	return stringValue(v, key) == "true"
}
