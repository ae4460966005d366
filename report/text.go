package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yeungjosh/pokemon-real-data-experiment/features"
)

var (
	colorAccent = lipgloss.Color("99")
	colorGreen  = lipgloss.Color("78")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("203")
	colorGray   = lipgloss.Color("245")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	goodStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	badStyle   = lipgloss.NewStyle().Foreground(colorRed)
	mutedStyle = lipgloss.NewStyle().Foreground(colorGray)
	keyLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(16)

	box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1)
)

// ratioStyle colors a [0,1] score.
func ratioStyle(v float64) lipgloss.Style {
	switch {
	case v >= 0.75:
		return goodStyle
	case v >= 0.5:
		return warnStyle
	default:
		return badStyle
	}
}

func keyValue(k, v string) string {
	return keyLabel.Render(k) + v
}

// RenderText renders r for a terminal.
func RenderText(r TeamReport) string {
	lines := []string{
		titleStyle.Render(r.Title),
		strings.Join(r.Members, ", "),
	}
	if len(r.Missing) > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("not in pokedex: %s (report covers %d of %d)",
			strings.Join(r.Missing, ", "), len(r.Members), len(r.Members)+len(r.Missing))))
	}
	lines = append(lines, "")

	if len(r.Features) > 0 {
		for _, name := range features.FeatureNames {
			v := r.Features[name]
			val := formatFeature(name, v)
			switch name {
			case "type_score", "meta_score", "role_score", "balance":
				val = ratioStyle(v).Render(val)
			}
			lines = append(lines, keyValue(name, val))
		}
	} else {
		lines = append(lines, mutedStyle.Render("team incomplete, no score"))
	}
	lines = append(lines, "")

	lines = append(lines, keyValue("roles", listOr(r.Roles, "none")))
	if len(r.Liabilities) > 0 {
		lines = append(lines, keyValue("liabilities", badStyle.Render(strings.Join(r.Liabilities, ", "))))
	} else {
		lines = append(lines, keyValue("liabilities", goodStyle.Render("none")))
	}
	if weak := sortedCounts(r.Weaknesses); len(weak) > 0 {
		lines = append(lines, keyValue("weak to", strings.Join(weak, ", ")))
	}
	if len(r.Unchecked) > 0 {
		lines = append(lines, keyValue("unchecked", warnStyle.Render(strings.Join(r.Unchecked, ", "))))
	}

	return box.Render(strings.Join(lines, "\n"))
}

// RenderExplanationText renders e for a terminal.
func RenderExplanationText(e Explanation) string {
	lines := []string{
		titleStyle.Render("Adding " + strings.Join(added(e), ", ")),
		keyValue("covers", listOr(e.WeaknessesCovered, "nothing new")),
		keyValue("handles", listOr(e.ThreatsHandled, "nothing new")),
		keyValue("adds roles", listOr(e.RolesAdded, "nothing new")),
	}
	if e.BeforeFeatures != nil && e.AfterFeatures != nil {
		lines = append(lines, "")
		for _, name := range features.FeatureNames {
			delta := e.AfterFeatures[name] - e.BeforeFeatures[name]
			style := mutedStyle
			if delta > 0 {
				style = goodStyle
			} else if delta < 0 {
				style = badStyle
			}
			lines = append(lines, keyValue(name, style.Render(fmt.Sprintf("%+.3f", delta))))
		}
	}
	return box.Render(strings.Join(lines, "\n"))
}

// added lists names in e.After that are not in e.Before.
func added(e Explanation) []string {
	seen := make(map[string]bool, len(e.Before))
	for _, n := range e.Before {
		seen[n] = true
	}
	var out []string
	for _, n := range e.After {
		if !seen[n] {
			out = append(out, n)
		}
	}
	return out
}

func listOr(items []string, fallback string) string {
	if len(items) == 0 {
		return mutedStyle.Render(fallback)
	}
	return strings.Join(items, ", ")
}
