package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

// sendAsync delivers in a goroutine. Mail is fire-and-forget: a failed send
// is logged and never fails the operation that triggered it.
func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: RobotDance <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		if err := smtp.SendMail(addr, auth, s.From, to, msg); err != nil {
			log.Printf("Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("Email sent to %v: %s", to, subject)
		}
	}()
}

// SendSubmissionConfirmation thanks a submitter and sets expectations about
// the review queue.
func (s *MailService) SendSubmissionConfirmation(email, toolName string) {
	body := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
<h2>Thanks for submitting %s!</h2>
<p>We've received your submission and our team will review it shortly.</p>
<p>Once approved, it will appear on RobotDance for the community to discover and review.</p>
<p style="color: #666; font-size: 14px; margin-top: 24px;">— The RobotDance Team</p>
</div>`, toolName)
	s.sendAsync([]string{email}, "We received your submission: "+toolName, body)
}

// SendSubmissionAlert notifies the site admin that a new tool is waiting for
// moderation.
func (s *MailService) SendSubmissionAlert(adminEmail, toolName, websiteURL, submitterEmail string) {
	body := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
<h2>New tool submission: %s</h2>
<p>Website: <a href="%s">%s</a></p>
<p>Submitted by: %s</p>
<p>It is waiting in the moderation queue.</p>
</div>`, toolName, websiteURL, websiteURL, submitterEmail)
	s.sendAsync([]string{adminEmail}, "[RobotDance] New submission: "+toolName, body)
}

// SendReviewThanks confirms a published review to its author.
func (s *MailService) SendReviewThanks(email, solutionName string) {
	body := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
<h2>Your review of %s is live!</h2>
<p>Thanks for sharing your experience. Your ratings are already part of the solution's Robot Dance Score.</p>
<p>Share your referral link from the dashboard to earn commissions when readers try %s.</p>
<p style="color: #666; font-size: 14px; margin-top: 24px;">— The RobotDance Team</p>
</div>`, solutionName, solutionName)
	s.sendAsync([]string{email}, "Your review of "+solutionName+" is live", body)
}
