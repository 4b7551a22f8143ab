package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	customerdomain "github.com/smallbiznis/atmn/internal/customer/domain"
	pulldomain "github.com/smallbiznis/atmn/internal/pull/domain"
	pushdomain "github.com/smallbiznis/atmn/internal/push/domain"
	"gopkg.in/yaml.v3"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var styles = struct {
	title, add, update, remove, warn, muted lipgloss.Style
}{
	title:  lipgloss.NewStyle().Bold(true),
	add:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	update: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	remove: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

func renderPull(w io.Writer, r *pulldomain.Result) {
	switch r.Mode {
	case pulldomain.ModeGenerated:
		fmt.Fprintln(w, styles.title.Render("Wrote "+r.Path))
	case pulldomain.ModeUnchanged:
		fmt.Fprintln(w, styles.title.Render(r.Path+" is up to date"))
	default:
		fmt.Fprintln(w, styles.title.Render("Updated "+r.Path))
	}
	if r.FallbackReason != "" {
		fmt.Fprintln(w, styles.warn.Render("merge failed, file regenerated: "+r.FallbackReason))
	}

	u := r.Update
	counts := []struct {
		n     int
		label string
		style lipgloss.Style
	}{
		{u.FeaturesAdded, "features added", styles.add},
		{u.FeaturesUpdated, "features updated", styles.update},
		{u.FeaturesDeleted, "features removed", styles.remove},
		{u.PlansAdded, "plans added", styles.add},
		{u.PlansUpdated, "plans updated", styles.update},
		{u.PlansDeleted, "plans removed", styles.remove},
	}
	for _, c := range counts {
		if c.n > 0 {
			fmt.Fprintln(w, "  "+c.style.Render(fmt.Sprintf("%d %s", c.n, c.label)))
		}
	}

	if len(r.Candidates) > 0 && !r.Deleted {
		fmt.Fprintln(w, styles.muted.Render("  kept local entities missing remotely:"))
		for _, c := range r.Candidates {
			fmt.Fprintln(w, styles.muted.Render(fmt.Sprintf("    %s %s", c.Kind, c.ID)))
		}
	}
	for _, a := range r.Ambiguities {
		fmt.Fprintln(w, styles.warn.Render("  skipped "+a.Error()))
	}
}

func renderPush(w io.Writer, r *pushdomain.Result, env string) {
	a := r.Analysis
	title := "Push to " + env
	if r.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(w, styles.title.Render(title))
	if !a.HasChanges() && len(a.ArchivedFeatures)+len(a.ArchivedPlans) == 0 {
		fmt.Fprintln(w, styles.muted.Render("  nothing to push"))
		return
	}

	line := func(style lipgloss.Style, mark, kind, id, note string) {
		text := fmt.Sprintf("  %s %s %s", mark, kind, id)
		if note != "" {
			text += " " + note
		}
		fmt.Fprintln(w, style.Render(text))
	}

	for _, f := range a.FeaturesToCreate {
		line(styles.add, "+", "feature", f.ID, "")
	}
	for _, f := range a.FeaturesToUpdate {
		line(styles.update, "~", "feature", f.ID, "")
	}
	for _, p := range a.PlansToCreate {
		line(styles.add, "+", "plan", p.ID, "")
	}
	for _, u := range a.PlansToUpdate {
		note := ""
		if u.WillVersion {
			note = "(new version)"
		}
		line(styles.update, "~", "plan", u.Plan.ID, note)
	}
	for _, d := range a.PlansToDelete {
		if d.Blocked != nil {
			line(styles.warn, "!", "plan", d.Plan.ID, "blocked: "+d.Blocked.Error())
			continue
		}
		line(styles.remove, "-", "plan", d.Plan.ID, "")
	}
	for _, d := range a.FeaturesToDelete {
		if d.Blocked != nil {
			line(styles.warn, "!", "feature", d.Feature.ID, "blocked: "+d.Blocked.Error())
			continue
		}
		line(styles.remove, "-", "feature", d.Feature.ID, "")
	}
	for _, f := range a.ArchivedFeatures {
		line(styles.muted, "·", "feature", f.ID, "is archived remotely")
	}
	for _, p := range a.ArchivedPlans {
		line(styles.muted, "·", "plan", p.ID, "is archived remotely")
	}

	if !r.DryRun {
		fmt.Fprintln(w, styles.title.Render(fmt.Sprintf("%d change(s) applied", len(r.Executed))))
	}
}

func renderNuke(w io.Writer, r customerdomain.DeleteAllResult) {
	fmt.Fprintln(w, styles.title.Render(fmt.Sprintf("Deleted %d customer(s)", r.Deleted)))
	for _, f := range r.Failed {
		fmt.Fprintln(w, styles.remove.Render(fmt.Sprintf("  %s: %s", f.Customer.DisplayName(), f.Message)))
	}
}

// writeStructured prints v as JSON or YAML. YAML goes through the JSON
// form so both outputs share field names.
func writeStructured(w io.Writer, v any, format string) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if format == OutputJSON {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
