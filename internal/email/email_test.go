package email

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"catalognorm/internal/config"
	"catalognorm/internal/models"
)

func TestNewService(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.Config
		wantEnabled bool
	}{
		{
			name: "enabled when SMTP and reviewers configured",
			cfg: &config.Config{
				SMTPHost:       "smtp.example.com",
				SMTPPort:       587,
				SMTPFrom:       "noreply@example.com",
				ReviewerEmails: []string{"reviewer@example.com"},
			},
			wantEnabled: true,
		},
		{
			name: "disabled without reviewers",
			cfg: &config.Config{
				SMTPHost: "smtp.example.com",
				SMTPPort: 587,
				SMTPFrom: "noreply@example.com",
			},
			wantEnabled: false,
		},
		{
			name:        "disabled with empty config",
			cfg:         &config.Config{},
			wantEnabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(tt.cfg, nil)
			if s.IsEnabled() != tt.wantEnabled {
				t.Errorf("IsEnabled() = %v, want %v", s.IsEnabled(), tt.wantEnabled)
			}
		})
	}
}

func TestSendEmail_DisabledIsNoop(t *testing.T) {
	s := NewService(&config.Config{}, nil)
	if err := s.SendEmail([]string{"a@example.com"}, "subject", "<p>hi</p>", "hi"); err != nil {
		t.Errorf("SendEmail() error = %v, want nil", err)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("Bot <bot@example.com>", []string{"a@example.com", "b@example.com"}, "Hello", "<p>hi</p>", "hi", "B1")

	for _, want := range []string{
		"From: Bot <bot@example.com>\r\n",
		"To: a@example.com, b@example.com\r\n",
		"Subject: Hello\r\n",
		"Content-Type: multipart/alternative; boundary=\"B1\"\r\n",
		"--B1\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\nhi\r\n",
		"--B1\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n<p>hi</p>\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if !strings.HasSuffix(msg, "--B1--\r\n") {
		t.Error("message missing closing boundary")
	}
}

func TestBuildMessage_TextOnly(t *testing.T) {
	msg := buildMessage("bot@example.com", []string{"a@example.com"}, "Hello", "", "hi", "B1")
	if strings.Contains(msg, "text/html") {
		t.Error("text-only message should not contain an HTML part")
	}
}

func TestRetrainFinished(t *testing.T) {
	reason := "need 5 training pairs, have <2>"
	run := models.RetrainRun{
		ID:           uuid.New(),
		Status:       models.RunFailed,
		PairCount:    2,
		MinPairs:     5,
		ArtifactPath: "data/model.json",
		Error:        &reason,
	}

	subject, htmlBody, textBody := RetrainFinished(run)

	if subject != "[catalognorm] Retrain failed (2 training pairs)" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(htmlBody, `class="error"`) {
		t.Error("failed run should use the error class")
	}
	if !strings.Contains(htmlBody, "have &lt;2&gt;") {
		t.Error("detail should be HTML-escaped")
	}
	if !strings.Contains(textBody, "Detail: need 5 training pairs, have <2>") {
		t.Errorf("text body missing detail: %q", textBody)
	}
}

func TestReviewBacklog(t *testing.T) {
	v := "Navy Cap"
	oldest := []models.Product{
		{ID: 3, Text: "Nvy Cap", NormalizedValue: &v},
		{ID: 4, Text: "<script>"},
	}

	subject, htmlBody, textBody := ReviewBacklog(120, 100, oldest)

	if subject != "[catalognorm] 120 products awaiting review" {
		t.Errorf("subject = %q", subject)
	}
	if strings.Contains(htmlBody, "<script>") {
		t.Error("product text should be HTML-escaped")
	}
	if !strings.Contains(textBody, "#3  Nvy Cap -> Navy Cap") {
		t.Errorf("text body missing product line: %q", textBody)
	}
	if !strings.Contains(textBody, "#4  <script>\n") {
		t.Errorf("text body missing product without suggestion: %q", textBody)
	}
}
