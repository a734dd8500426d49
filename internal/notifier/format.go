package notifier

import (
	"path"
	"strings"
)

// Text renders n as plain text: title, outlook, recommendations and the
// artifact location.
func Text(n Notice) string {
	var sb strings.Builder
	sb.WriteString(n.Title)
	sb.WriteString("\n")
	if len(n.Outlook) > 0 {
		sb.WriteString("\n")
		for _, l := range n.Outlook {
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	}
	if len(n.Recommendations) > 0 {
		sb.WriteString("\n")
		for _, l := range n.Recommendations {
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nArtifacts: ")
	sb.WriteString(n.Dir)
	if len(n.Artifacts) > 0 {
		names := make([]string, len(n.Artifacts))
		for i, a := range n.Artifacts {
			names[i] = path.Base(a)
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString(")")
	}
	sb.WriteString("\nRun: ")
	sb.WriteString(n.RunID)
	return sb.String()
}
