package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/step-security/delete-deployment-environment/internal/cleanup"
	"github.com/step-security/delete-deployment-environment/internal/repocontext"
)

// Styles for terminal output
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// maxListedDeployments caps the deployments printed in the summary
const maxListedDeployments = 10

// confirmCleanup returns a ConfirmFunc that shows the plan and asks before
// any deployment is touched
func confirmCleanup(repo repocontext.RepositoryContext) cleanup.ConfirmFunc {
	return func(ctx context.Context, plan cleanup.Plan) (bool, error) {
		fmt.Println(renderPlan(repo, plan))

		var confirm bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Clean up environment %q in %s?", plan.Environment, repo)).
					Description(planDescription(plan)).
					Affirmative("Yes, proceed").
					Negative("Cancel").
					Value(&confirm),
			),
		)

		if err := form.RunWithContext(ctx); err != nil {
			return false, fmt.Errorf("confirmation form: %w", err)
		}
		return confirm, nil
	}
}

// renderPlan formats the plan summary shown above the confirmation
func renderPlan(repo repocontext.RepositoryContext, plan cleanup.Plan) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Deployment cleanup"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  Repository:   %s\n", repo)
	fmt.Fprintf(&sb, "  Environment:  %s\n", plan.Environment)
	if plan.Ref != "" {
		fmt.Fprintf(&sb, "  Ref:          %s\n", plan.Ref)
	}
	fmt.Fprintf(&sb, "  Deployments:  %d\n", len(plan.Deployments))

	for i, d := range plan.Deployments {
		if i == maxListedDeployments {
			fmt.Fprintf(&sb, "    ... and %d more\n", len(plan.Deployments)-maxListedDeployments)
			break
		}
		fmt.Fprintf(&sb, "    #%d (%s)\n", d.ID, d.Ref)
	}

	if plan.DeleteEnvironment {
		sb.WriteString(warningStyle.Render(fmt.Sprintf("The environment %s will be deleted.", plan.Environment)))
		sb.WriteString("\n")
	}

	return sb.String()
}

func planDescription(plan cleanup.Plan) string {
	steps := []string{"deactivate deployments"}
	if plan.DeleteDeployments {
		steps = append(steps, "delete deployments")
	}
	if plan.DeleteEnvironment {
		steps = append(steps, "delete the environment")
	}
	return "This will " + strings.Join(steps, ", then ")
}
