package services

import (
	"context"
	"fmt"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/platform/sendgrid"
)

// EmailOutcome reports how a send resolved. Simulated means the message was
// composed and logged but never left the process, either because the mail
// provider is not configured or because the real send failed.
type EmailOutcome struct {
	Simulated bool   `json:"simulated"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// EmailService sends product email. Sends never fail the caller: every
// problem downgrades to a simulated send.
type EmailService interface {
	SendWelcome(ctx context.Context, toEmail, toName string) *EmailOutcome
}

type emailService struct {
	log    *logger.Logger
	cfg    sendgrid.Config
	client sendgrid.Client
}

func NewEmailService(log *logger.Logger) EmailService {
	serviceLog := log.With("service", "EmailService")
	cfg := sendgrid.ConfigFromEnv()
	var client sendgrid.Client
	if cfg.Configured() {
		c, err := sendgrid.New(serviceLog, cfg)
		if err != nil {
			serviceLog.Warn("sendgrid client init failed, sends will be simulated", "error", err)
		} else {
			client = c
		}
	} else {
		serviceLog.Info("sendgrid not configured, sends will be simulated")
	}
	return &emailService{log: serviceLog, cfg: cfg, client: client}
}

func (es *emailService) SendWelcome(ctx context.Context, toEmail, toName string) *EmailOutcome {
	subject, body := welcomeMessage(toName)
	if es.client == nil {
		return es.simulate(toEmail, subject, body)
	}
	result, err := es.client.Send(ctx, sendgrid.SendEmailRequest{
		From:       sendgrid.EmailAddress{Email: es.cfg.DefaultFromEmail, Name: es.cfg.DefaultFromName},
		To:         []sendgrid.EmailAddress{{Email: toEmail, Name: toName}},
		Subject:    subject,
		Text:       body,
		TemplateID: es.cfg.WelcomeTemplate,
		DynamicTemplateData: map[string]any{
			"display_name": toName,
		},
	})
	if err != nil {
		es.log.Warn("welcome email send failed, falling back to simulated send", "error", err)
		return es.simulate(toEmail, subject, body)
	}
	es.log.Info("welcome email sent", "status", result.StatusCode, "message_id", result.MessageID)
	return &EmailOutcome{Simulated: false, Subject: subject, Body: body}
}

func (es *emailService) simulate(toEmail, subject, body string) *EmailOutcome {
	es.log.Info("simulated email send", "to", toEmail, "subject", subject)
	return &EmailOutcome{Simulated: true, Subject: subject, Body: body}
}

func welcomeMessage(name string) (string, string) {
	if name == "" {
		name = "there"
	}
	subject := "Welcome to Lectura"
	body := fmt.Sprintf("Hi %s,\n\nYour account is ready. Paste a lecture transcript or a video "+
		"link to generate a summary, chapters, a practice quiz, flashcards, and a cheat sheet.\n\n"+
		"Happy studying!", name)
	return subject, body
}
