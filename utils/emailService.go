package utils

import (
	"fmt"
	"lms/config"
	"log"
	"net/smtp"
	"strings"
)

// SendEmail sends an HTML email through the configured SMTP account
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Caregivers Professional Board <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

// getEmailTemplate wraps body content in the board's standard HTML frame
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B3A4B; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B3A4B; line-height: 1.6; }
			.content h2 { color: #1B3A4B; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #2E8B57; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2E8B57; margin: 20px 0; }
			.code { font-family: monospace; font-size: 18px; letter-spacing: 2px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>Caregivers Professional Board</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated message from the Caregivers Professional Board member portal.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendEnrollmentConfirmation notifies a learner that their enrollment is active
func SendEnrollmentConfirmation(email, name, courseTitle string) error {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your enrollment in <strong>%s</strong> is now active. You can start
		learning from your member dashboard right away.</p>
		<div class="info-box">Complete every lesson to become eligible for your
		certificate of completion.</div>`, name, courseTitle)

	return SendEmail([]string{email}, "Enrollment Confirmed: "+courseTitle, getEmailTemplate("Enrollment Confirmed", body))
}

// SendCertificateIssued notifies a learner that their certificate is ready
func SendCertificateIssued(email, name, courseTitle, code, verifyURL string) error {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>! Your certificate
		has been issued.</p>
		<div class="info-box">Certificate code: <span class="code">%s</span></div>
		<p>Anyone can verify this certificate at any time:</p>
		<a class="btn" href="%s">Verify Certificate</a>`, name, courseTitle, code, verifyURL)

	return SendEmail([]string{email}, "Your Certificate: "+courseTitle, getEmailTemplate("Certificate Issued", body))
}

// SendMembershipActivated notifies a member that their membership payment
// cleared
func SendMembershipActivated(email, name string) error {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your membership payment has been confirmed and your membership with
		the Caregivers Professional Board is now <strong>active</strong>.</p>`, name)

	return SendEmail([]string{email}, "Membership Activated", getEmailTemplate("Membership Activated", body))
}
