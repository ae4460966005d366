package report

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/yeungjosh/pokemon-real-data-experiment/features"
)

// RenderHTML writes a report fragment for the live page.
func RenderHTML(r TeamReport) string {
	var sb strings.Builder

	sb.WriteString("<div class='team-summary'>")
	sb.WriteString(fmt.Sprintf("<h4>%s</h4>", html.EscapeString(r.Title)))
	sb.WriteString("<div>" + html.EscapeString(strings.Join(r.Members, ", ")) + "</div>")

	if len(r.Missing) > 0 {
		sb.WriteString(fmt.Sprintf("<div class='missing' style='color:#e67e22;'><b>Not in pokedex:</b> %s (report covers %d of %d)</div>",
			html.EscapeString(strings.Join(r.Missing, ", ")), len(r.Members), len(r.Members)+len(r.Missing)))
	}

	if len(r.Features) > 0 {
		sb.WriteString("<table class='features'>")
		for _, name := range features.FeatureNames {
			sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td></tr>", name, formatFeature(name, r.Features[name])))
		}
		sb.WriteString("</table>")
	} else {
		sb.WriteString("<div style='color:#aaa;'>Team incomplete, no score yet.</div>")
	}

	if len(r.Roles) > 0 {
		sb.WriteString("<div><b>Roles:</b> " + strings.Join(r.Roles, ", ") + "</div>")
	}

	if len(r.Liabilities) > 0 {
		sb.WriteString("<div style='color:#e74c3c;'><b>Liabilities:</b> " + strings.Join(r.Liabilities, ", ") + "</div>")
	}

	if weak := sortedCounts(r.Weaknesses); len(weak) > 0 {
		sb.WriteString("<div><b>Weak to:</b> " + strings.Join(weak, ", ") + "</div>")
	}

	if len(r.Unchecked) > 0 {
		sb.WriteString("<div class='unchecked'><b>Unchecked threats:</b><ul>")
		for _, name := range r.Unchecked {
			sb.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(name)))
		}
		sb.WriteString("</ul></div>")
	}

	sb.WriteString("</div>")
	return sb.String()
}

// formatFeature prints ratio features as percentages and the rest as plain numbers.
func formatFeature(name string, v float64) string {
	switch name {
	case "type_score", "meta_score", "role_score", "balance":
		return fmt.Sprintf("%.0f%%", v*100)
	case "type_diversity":
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// sortedCounts renders "Ice x3" entries, most shared weakness first.
func sortedCounts(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s x%d", k, m[k]))
	}
	return out
}
