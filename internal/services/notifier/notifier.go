// Package services содержит логику отправки почтовых уведомлений
// по событиям из очередей.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/smtp"
	authservice "github.com/magabrotheeeer/cloud-chaser/internal/services/auth"
	campaignservice "github.com/magabrotheeeer/cloud-chaser/internal/services/campaign"
)

// NotifierService превращает события очередей в письма.
type NotifierService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(transport smtp.TransportInterface, log *slog.Logger) *NotifierService {
	return &NotifierService{
		transport: transport,
		log:       log,
	}
}

// SendWelcome отправляет приветственное письмо новому пользователю.
func (s *NotifierService) SendWelcome(body []byte) error {
	var event authservice.RegisteredEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.Email}
	subject := "Добро пожаловать в Cloud Chaser"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаша учетная запись создана. Теперь вы можете оформить подписку на продукт и запускать рекламные кампании.",
		event.Name)

	return s.sendEmail(to, subject, bodyText)
}

// SendCampaignStatusChange уведомляет владельца кампании о смене статуса.
// Событие без адреса получателя пропускается: это не повод
// возвращать сообщение в очередь.
func (s *NotifierService) SendCampaignStatusChange(body []byte) error {
	var event campaignservice.StatusChangedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.Email == "" {
		s.log.Warn("campaign status event without recipient", slog.Int64("id_campaign", event.CampaignID))
		return nil
	}

	to := []string{event.Email}
	subject := "Изменение статуса рекламной кампании"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nСтатус вашей кампании %q изменен на %q.",
		event.UserName, event.Name, event.Status)

	return s.sendEmail(to, subject, bodyText)
}

func (s *NotifierService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
