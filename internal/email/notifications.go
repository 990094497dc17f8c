package email

import (
	"catalognorm/internal/models"
)

// Sender delivers a rendered email.
type Sender interface {
	IsEnabled() bool
	SendAsync(to []string, subject, htmlBody, textBody string)
}

// Notifier sends reviewer notifications for pipeline events.
type Notifier struct {
	sender     Sender
	recipients []string
}

// NewNotifier creates a notifier that mails recipients through sender.
func NewNotifier(sender Sender, recipients []string) *Notifier {
	return &Notifier{sender: sender, recipients: recipients}
}

// Enabled reports whether notifications will be delivered.
func (n *Notifier) Enabled() bool {
	return n.sender.IsEnabled() && len(n.recipients) > 0
}

// NotifyRetrainFinished reports a finished retrain. Skipped runs are not mailed.
func (n *Notifier) NotifyRetrainFinished(run models.RetrainRun) {
	if !n.Enabled() || run.Status == models.RunSkipped {
		return
	}
	subject, htmlBody, textBody := RetrainFinished(run)
	n.sender.SendAsync(n.recipients, subject, htmlBody, textBody)
}

// NotifyReviewBacklog alerts reviewers about a large review queue.
func (n *Notifier) NotifyReviewBacklog(pending int64, threshold int, oldest []models.Product) {
	if !n.Enabled() {
		return
	}
	subject, htmlBody, textBody := ReviewBacklog(pending, threshold, oldest)
	n.sender.SendAsync(n.recipients, subject, htmlBody, textBody)
}
