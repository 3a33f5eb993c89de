// src/services/reminder_service.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/focoagora/backend/src/config"
	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/model"
	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/processors"
	"github.com/focoagora/backend/src/utils"
	"github.com/jordan-wright/email"
)

// Mailer delivers a plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends e-mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg *config.AppConfig
}

func NewSMTPMailer(cfg *config.AppConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.cfg.SenderName, m.cfg.SenderEmail)
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPServer, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPServer)
	}
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type reminderServiceImpl struct {
	db     *sql.DB
	ritmo  processors.RitmoTracker
	mailer Mailer
}

func NewReminderService(db *sql.DB, ritmo processors.RitmoTracker, mailer Mailer) ReminderService {
	return &reminderServiceImpl{db: db, ritmo: ritmo, mailer: mailer}
}

// SendPendingReminders e-mails every user with a reminder address and at least one pending ritual.
// It returns how many messages were sent; a failed delivery is logged and does not stop the run.
func (s *reminderServiceImpl) SendPendingReminders(ctx context.Context, today time.Time) (int, error) {
	users, err := model.ListFocusUsers(s.db)
	if err != nil {
		return 0, err
	}
	day := utils.Day(today)
	sent := 0
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		state, err := model.GetFocusState(s.db, userID)
		if err != nil {
			logger.L.Error("Reminder: failed to load focus state", "userID", userID, "error", err)
			continue
		}
		if state.ReminderEmail == "" {
			continue
		}
		status := s.ritmo.Evaluate(state.Ritmo, utils.WeekStart(day), day)
		if status.TotalPending == 0 {
			continue
		}
		subject, body := reminderMessage(status, day)
		if err := s.mailer.Send(state.ReminderEmail, subject, body); err != nil {
			logger.L.Error("Reminder: delivery failed", "userID", userID, "error", err)
			continue
		}
		sent++
		logger.L.Info("Reminder sent", "userID", userID, "pending", status.TotalPending)
	}
	return sent, nil
}

func reminderMessage(status models.RitmoStatus, day time.Time) (string, string) {
	subject := fmt.Sprintf("FocoAgora: %d rotina(s) pendente(s)", status.TotalPending)
	var b strings.Builder
	fmt.Fprintf(&b, "Bom dia!\n\nRotinas pendentes em %s:\n\n", day.Format("02/01/2006"))
	for _, t := range status.Tasks {
		if t.Status == models.TaskPending {
			fmt.Fprintf(&b, "- %s (%s)\n", t.Title, t.Frequency)
		}
	}
	b.WriteString("\nAbra o FocoAgora para registrar.\n")
	return subject, b.String()
}
