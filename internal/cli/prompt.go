package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/smallbiznis/atmn/internal/merge"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/smallbiznis/atmn/internal/pushplan"
)

// Prompter asks yes/no questions on the terminal. When the session is not
// interactive every question is answered no.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

func NewPrompter(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

func (p *Prompter) ConfirmLocalDeletion(ctx context.Context, candidates []merge.Candidate) (bool, error) {
	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, fmt.Sprintf("%s %s (%s, line %d)", c.Kind, c.ID, c.VarName, c.Line))
	}
	return p.confirm(ctx, "These entities no longer exist remotely. Remove them from the config file?", lines)
}

func (p *Prompter) ConfirmDeletion(ctx context.Context, features []pushplan.FeatureDeletion, plans []pushplan.PlanDeletion) (bool, error) {
	var lines []string
	for _, d := range plans {
		lines = append(lines, "plan "+d.Plan.ID)
	}
	for _, d := range features {
		lines = append(lines, "feature "+d.Feature.ID)
	}
	return p.confirm(ctx, "Delete these remote entities that are missing from the config file?", lines)
}

func (p *Prompter) ConfirmArchive(ctx context.Context, features []pushplan.FeatureDeletion, plans []pushplan.PlanDeletion) (bool, error) {
	var lines []string
	for _, d := range plans {
		lines = append(lines, d.Blocked.Error())
	}
	for _, d := range features {
		lines = append(lines, d.Blocked.Error())
	}
	return p.confirm(ctx, "These entities cannot be deleted. Archive them instead?", lines)
}

func (p *Prompter) ConfirmVersion(ctx context.Context, plans []plandomain.Plan) (bool, error) {
	lines := make([]string, 0, len(plans))
	for _, pl := range plans {
		lines = append(lines, "plan "+pl.ID)
	}
	return p.confirm(ctx, "These plans have customers. Updating them creates a new version. Continue?", lines)
}

func (p *Prompter) ConfirmNuke(ctx context.Context, count int) (bool, error) {
	return p.confirm(ctx, fmt.Sprintf("Delete all %d customers in the sandbox environment?", count), nil)
}

func (p *Prompter) confirm(ctx context.Context, question string, lines []string) (bool, error) {
	if !p.interactive {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintln(p.out, styles.warn.Render(question))
	for _, line := range lines {
		fmt.Fprintln(p.out, "  "+line)
	}
	fmt.Fprint(p.out, "[y/N] ")

	answer, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
