package email

import (
	"fmt"
	"html"
	"strings"

	"catalognorm/internal/models"
)

// baseHTML wraps content in a consistent HTML email layout.
func baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f766e; color: white; padding: 16px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .label { font-weight: 600; color: #374151; }
        .success { color: #059669; }
        .warning { color: #d97706; }
        .error { color: #dc2626; }
        code { background: #e5e7eb; padding: 2px 6px; border-radius: 4px; font-family: monospace; }
        td { padding: 4px 8px; border-bottom: 1px solid #e5e7eb; }
    </style>
</head>
<body>
    <div class="header"><strong>%s</strong></div>
    <div class="content">
        %s
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), content)
}

func statusClass(status string) string {
	switch status {
	case models.RunSucceeded:
		return "success"
	case models.RunSkipped:
		return "warning"
	default:
		return "error"
	}
}

// RetrainFinished renders the notification for a finished retrain run.
func RetrainFinished(run models.RetrainRun) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[catalognorm] Retrain %s (%d training pairs)", run.Status, run.PairCount)

	detail := ""
	if run.Error != nil {
		detail = *run.Error
	}

	content := fmt.Sprintf(`
        <p>Retrain run <code>%s</code> finished with status <span class="%s">%s</span>.</p>
        <p><span class="label">Training pairs:</span> %d (minimum %d)</p>
        <p><span class="label">Artifact:</span> <code>%s</code></p>`,
		run.ID, statusClass(run.Status), html.EscapeString(run.Status),
		run.PairCount, run.MinPairs, html.EscapeString(run.ArtifactPath))
	if detail != "" {
		content += fmt.Sprintf(`
        <p><span class="label">Detail:</span> %s</p>`, html.EscapeString(detail))
	}
	htmlBody = baseHTML("Retrain "+run.Status, content)

	textBody = fmt.Sprintf("Retrain run %s finished with status %s.\n\nTraining pairs: %d (minimum %d)\nArtifact: %s\n",
		run.ID, run.Status, run.PairCount, run.MinPairs, run.ArtifactPath)
	if detail != "" {
		textBody += "Detail: " + detail + "\n"
	}
	return subject, htmlBody, textBody
}

// ReviewBacklog renders the alert sent when the review queue grows past the
// configured size. oldest lists a sample of the waiting products.
func ReviewBacklog(pending int64, threshold int, oldest []models.Product) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[catalognorm] %d products awaiting review", pending)

	var rows, lines strings.Builder
	for _, p := range oldest {
		fmt.Fprintf(&rows, "<tr><td>#%d</td><td>%s</td><td>%s</td></tr>",
			p.ID, html.EscapeString(p.Text), html.EscapeString(p.DisplayValue()))
		fmt.Fprintf(&lines, "  #%d  %s", p.ID, p.Text)
		if v := p.DisplayValue(); v != "" {
			fmt.Fprintf(&lines, " -> %s", v)
		}
		lines.WriteString("\n")
	}

	content := fmt.Sprintf(`
        <p class="warning">The review queue holds <strong>%d</strong> products (alert size %d).</p>
        <p>Oldest pending products:</p>
        <table>%s</table>
        <p>Run <code>catalogctl review</code> to work through the queue.</p>`,
		pending, threshold, rows.String())
	htmlBody = baseHTML("Review backlog", content)

	textBody = fmt.Sprintf("The review queue holds %d products (alert size %d).\n\nOldest pending products:\n%s\nRun `catalogctl review` to work through the queue.\n",
		pending, threshold, lines.String())
	return subject, htmlBody, textBody
}
