package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/sentimentlab/topic-pulse/internal/config"
	"github.com/sentimentlab/topic-pulse/internal/models"
)

// Service sends batch run reports via the configured channels. Notification
// failures are reported to the caller but never fail the run itself.
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle string      `json:"activityTitle,omitempty"`
	Facts         []TeamsFact `json:"facts,omitempty"`
	Markdown      bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendRunReport sends the report via every configured channel.
func (s *Service) SendRunReport(report *models.RunReport) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(report); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent run report to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent run report via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(report *models.RunReport) error {
	message := s.buildTeamsMessage(report)

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildTeamsMessage(report *models.RunReport) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Topic Pulse Batch Report - %s", report.BatchDate),
		Text: fmt.Sprintf("Saved %d records (%d items skipped) in %s",
			report.TotalSaved(), report.TotalSkipped(), report.Duration),
	}

	facts := []TeamsFact{
		{Name: "Batch Date", Value: report.BatchDate},
		{Name: "Started", Value: report.StartedAt.Format("2006-01-02 15:04:05 UTC")},
		{Name: "Duration", Value: report.Duration},
	}
	for _, src := range report.Sources {
		value := fmt.Sprintf("%d saved (%d updated, %d skipped)", src.Saved, src.Updated, src.Skipped)
		if src.Error != "" {
			value = fmt.Sprintf("error: %s", src.Error)
		}
		facts = append(facts, TeamsFact{Name: src.Source, Value: value})
	}

	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Per-source results",
		Facts:         facts,
		Markdown:      true,
	})

	return message
}

var emailTemplate = template.Must(template.New("report").Parse(`
<h2>Topic Pulse Batch Report - {{.BatchDate}}</h2>
<p>Started {{.StartedAt.Format "2006-01-02 15:04:05 UTC"}}, finished in {{.Duration}}.</p>
<table border="1" cellpadding="4" cellspacing="0">
  <tr><th>Source</th><th>Collected</th><th>Saved</th><th>Updated</th><th>Skipped</th><th>Error</th></tr>
  {{range .Sources}}
  <tr>
    <td>{{.Source}}</td>
    <td>{{.Collected}}</td>
    <td>{{.Saved}}</td>
    <td>{{.Updated}}</td>
    <td>{{.Skipped}}</td>
    <td>{{.Error}}</td>
  </tr>
  {{end}}
</table>
`))

func (s *Service) sendEmail(report *models.RunReport) error {
	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, report); err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", fmt.Sprintf("Topic Pulse Batch Report - %s", report.BatchDate))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
