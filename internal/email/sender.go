// Package email delivers account-confirmation invites.
// It supports both development mode (log-only) and production mode (SMTP).
package email

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strconv"
)

// Sender defines the interface for sending invite emails
type Sender interface {
	SendInvite(email, userID, inviteID string) error
}

// Config holds email configuration
type Config struct {
	Mode     string // "log" or "smtp"
	Host     string
	Port     int
	User     string
	Password string
	From     string
	BaseURL  string // confirmation link base, e.g. the frontend origin
}

// NewConfig creates a new email configuration from environment variables
func NewConfig() *Config {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	return &Config{
		Mode:     getEnvOrDefault("EMAIL_MODE", "log"),
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getEnvOrDefault("SMTP_FROM", "noreply@example.com"),
		BaseURL:  getEnvOrDefault("CONFIRM_BASE_URL", "http://localhost:5173"),
	}
}

// NewSender creates a new email sender based on configuration
func NewSender(cfg *Config) Sender {
	if cfg.Mode == "smtp" {
		return &smtpSender{config: cfg}
	}
	return &logSender{config: cfg}
}

func confirmLink(baseURL, userID, inviteID string) string {
	return fmt.Sprintf("%s/confirm/%s?invite=%s", baseURL, userID, inviteID)
}

// logSender logs invites to the console (development mode)
type logSender struct {
	config *Config
}

func (s *logSender) SendInvite(email, userID, inviteID string) error {
	log.Printf("[DEV] Invite for %s: %s", email, confirmLink(s.config.BaseURL, userID, inviteID))
	return nil
}

// smtpSender sends invites via SMTP (production mode)
type smtpSender struct {
	config *Config
}

func (s *smtpSender) SendInvite(email, userID, inviteID string) error {
	link := confirmLink(s.config.BaseURL, userID, inviteID)

	message := fmt.Sprintf("From: %s\r\n", s.config.From)
	message += fmt.Sprintf("To: %s\r\n", email)
	message += "Subject: Confirm your account\r\n"
	message += "\r\n"
	message += fmt.Sprintf("Follow this link to confirm your account: %s\r\n", link)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := smtp.SendMail(addr, auth, s.config.From, []string{email}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}

	log.Printf("Invite sent to %s via SMTP", email)
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
