package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func TestSendPendingReminders(t *testing.T) {
	env := newTestEnv(t)
	today := asOf()
	env.saveState(t, "pending", func(s *models.FocusState) { s.ReminderEmail = "dona@loja.com.br" })
	env.saveState(t, "silent", func(s *models.FocusState) {})
	env.saveState(t, "upToDate", func(s *models.FocusState) {
		s.ReminderEmail = "ok@loja.com.br"
		for _, task := range []string{"atualizar_caixa", "lancar_movimentos", "conciliacao", "revisao_semanal", "revisar_premissas"} {
			s.Ritmo[task] = utils.FormatISODate(today)
		}
	})

	mailer := &fakeMailer{}
	sent, err := NewReminderService(env.db, env.suite.Ritmo, mailer).SendPendingReminders(context.Background(), today)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sent != 1 || len(mailer.sent) != 1 {
		t.Fatalf("expected exactly 1 reminder, got %d", sent)
	}
	msg := mailer.sent[0]
	if msg.to != "dona@loja.com.br" || !strings.Contains(msg.subject, "5 rotina") {
		t.Errorf("unexpected message %+v", msg)
	}
	if !strings.Contains(msg.body, "Conciliar extrato bancário") {
		t.Errorf("expected pending task titles in body, got %q", msg.body)
	}
}

func TestSendPendingRemindersSurvivesDeliveryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.saveState(t, "u1", func(s *models.FocusState) { s.ReminderEmail = "a@b.com" })
	sent, err := NewReminderService(env.db, env.suite.Ritmo, &fakeMailer{fail: true}).SendPendingReminders(context.Background(), asOf())
	if err != nil || sent != 0 {
		t.Errorf("expected 0 sent and no error, got %d (err=%v)", sent, err)
	}
}
