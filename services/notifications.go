package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"

	"vendor-match-system/models"
)

// Notifier receives matching events. Every method is best-effort: delivery
// problems are logged and swallowed, they never propagate into a rebuild or
// a scheduled job.
type Notifier interface {
	MatchCreated(project *models.Project, vendor *models.Vendor, score float64)
	SlaViolation(vendor *models.Vendor)
	DailySummary(matchCount int)
}

// EmailNotifier sends notification mails over SMTP. Without SMTP credentials
// it runs in mock mode and only logs what it would have sent, so local and
// test environments need no mail setup.
type EmailNotifier struct {
	host       string
	port       string
	username   string
	password   string
	fromEmail  string
	adminEmail string
}

func NewEmailNotifierFromEnv() *EmailNotifier {
	n := &EmailNotifier{
		host:       os.Getenv("SMTP_HOST"),
		port:       os.Getenv("SMTP_PORT"),
		username:   os.Getenv("SMTP_USER"),
		password:   os.Getenv("SMTP_PASS"),
		fromEmail:  os.Getenv("FROM_EMAIL"),
		adminEmail: os.Getenv("ADMIN_EMAIL"),
	}
	if n.port == "" {
		n.port = "587"
	}
	if n.fromEmail == "" {
		n.fromEmail = "noreply@expanders360.com"
	}
	if n.adminEmail == "" {
		n.adminEmail = "admin@expanders360.com"
	}
	if !n.configured() {
		log.Println("⚠️  SMTP configuration not found — email notifications will be mocked")
	}
	return n
}

func (n *EmailNotifier) configured() bool {
	return n.host != "" && n.username != "" && n.password != ""
}

func (n *EmailNotifier) MatchCreated(project *models.Project, vendor *models.Vendor, score float64) {
	subject := fmt.Sprintf("New Vendor Match Found - Project %s", project.ID)
	body := fmt.Sprintf(
		"A new vendor match has been found for your %s expansion.\n\n"+
			"Vendor: %s\nMatch Score: %.2f\nVendor Rating: %.1f/5\nResponse SLA: %d hours\n\n"+
			"Services offered: %s\nCountries supported: %s\n",
		project.Country, vendor.Name, score, vendor.Rating, vendor.ResponseSlaHours,
		strings.Join(vendor.ServicesOffered, ", "),
		strings.Join(vendor.CountriesSupported, ", "),
	)

	to := n.adminEmail
	if project.Client != nil && project.Client.ContactEmail != "" {
		to = project.Client.ContactEmail
	}
	n.send(to, subject, body)
}

func (n *EmailNotifier) SlaViolation(vendor *models.Vendor) {
	subject := fmt.Sprintf("SLA Violation Alert - Vendor %s", vendor.Name)
	body := fmt.Sprintf(
		"Vendor %s has exceeded the acceptable SLA response time.\n\n"+
			"SLA Hours: %d\nRating: %.1f/5\n\nPlease review and take appropriate action.\n",
		vendor.Name, vendor.ResponseSlaHours, vendor.Rating,
	)
	n.send(n.adminEmail, subject, body)
}

func (n *EmailNotifier) DailySummary(matchCount int) {
	subject := fmt.Sprintf("Daily Match Summary - %d matches processed", matchCount)
	body := fmt.Sprintf(
		"Today's matching run has completed.\n\nTotal matches processed: %d\nDate: %s\n",
		matchCount, time.Now().Format("2006-01-02"),
	)
	n.send(n.adminEmail, subject, body)
}

func (n *EmailNotifier) send(to, subject, body string) {
	if !n.configured() {
		log.Printf("📭 Mock email: %q → %s", subject, to)
		return
	}

	msg := strings.Join([]string{
		"From: " + n.fromEmail,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := n.host + ":" + n.port
	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	if err := smtp.SendMail(addr, auth, n.fromEmail, []string{to}, []byte(msg)); err != nil {
		log.Printf("❌ Failed to send %q to %s: %v", subject, to, err)
		return
	}
	log.Printf("📧 Sent %q to %s", subject, to)
}
