package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const (
	smtpHost = "smtp.gmail.com"
	smtpAddr = "smtp.gmail.com:587"
)

// Mailer sends transactional mail over SMTP. OTP mails are sent
// synchronously by the auth service; the courtesy mails are sent by the
// mail worker off the event stream.
type Mailer struct {
	gmailUser    string
	gmailAppPass string
	mailFrom     string
	mailFromName string
}

func New(gmailUser, gmailAppPass, mailFrom, mailFromName string) *Mailer {
	return &Mailer{
		gmailUser:    gmailUser,
		gmailAppPass: gmailAppPass,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
	}
}

var otpTmpl = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 10px; background-color: #ffffff;">
  <h2 style="color: #2563EB; text-align: center;">{{.Heading}}</h2>
  <p style="color: #555; font-size: 16px;">Hello {{.Name}},</p>
  <p style="color: #555; font-size: 16px;">{{.Intro}} This code is valid for 5 minutes.</p>
  <div style="text-align: center; margin: 30px 0;">
    <span style="font-size: 32px; font-weight: bold; letter-spacing: 5px; color: #1e293b; background: #f1f5f9; padding: 10px 20px; border-radius: 8px;">{{.Code}}</span>
  </div>
  <p style="color: #999; font-size: 12px; text-align: center;">If you didn't request this, please ignore this email.</p>
</div>`))

var noticeTmpl = template.Must(template.New("notice").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #2563EB;">{{.Heading}}</h2>
  <p style="color: #555; font-size: 16px;">Hello {{.Name}},</p>
  <p style="color: #555; font-size: 16px;">{{.Body}}</p>
</div>`))

type otpMailData struct {
	Heading string
	Name    string
	Intro   string
	Code    string
}

type noticeMailData struct {
	Heading string
	Name    string
	Body    string
}

func (m *Mailer) SendVerificationCode(to, name, code string) error {
	body, err := renderOTP(otpMailData{
		Heading: "Verify Your Email",
		Name:    name,
		Intro:   "Use the code below to complete your registration.",
		Code:    code,
	})
	if err != nil {
		return err
	}
	return m.send(to, "Your Verification Code - AuthApp", body)
}

func (m *Mailer) SendNewVerificationCode(to, name, code string) error {
	body, err := renderOTP(otpMailData{
		Heading: "New Verification Code",
		Name:    name,
		Intro:   "Here is your new verification code.",
		Code:    code,
	})
	if err != nil {
		return err
	}
	return m.send(to, "Your New Verification Code - AuthApp", body)
}

func (m *Mailer) SendResetCode(to, name, code string) error {
	body, err := renderOTP(otpMailData{
		Heading: "Reset Password Request",
		Name:    name,
		Intro:   "Use the code below to reset your password.",
		Code:    code,
	})
	if err != nil {
		return err
	}
	return m.send(to, "Reset Password OTP", body)
}

func (m *Mailer) SendWelcome(to, name string) error {
	body, err := renderNotice(noticeMailData{
		Heading: "Welcome to AuthApp",
		Name:    name,
		Body:    "Your email has been verified and your account is ready to use.",
	})
	if err != nil {
		return err
	}
	return m.send(to, "Welcome to AuthApp", body)
}

func (m *Mailer) SendPasswordChangedNotice(to, name string) error {
	body, err := renderNotice(noticeMailData{
		Heading: "Your Password Was Changed",
		Name:    name,
		Body:    "Your password was just reset. If this wasn't you, request a new reset code immediately.",
	})
	if err != nil {
		return err
	}
	return m.send(to, "Your Password Was Changed - AuthApp", body)
}

func renderOTP(data otpMailData) (string, error) {
	var buf bytes.Buffer
	if err := otpTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderNotice(data noticeMailData) (string, error) {
	var buf bytes.Buffer
	if err := noticeTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	fromHeader := fmt.Sprintf("%s <%s>", m.mailFromName, m.mailFrom)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	log.Printf("[MAIL] smtp sending to=%s via=%s", to, smtpAddr)

	if err := m.sendSMTPWithTimeout(to, []byte(msg)); err != nil {
		return err
	}

	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

func (m *Mailer) sendSMTPWithTimeout(to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", smtpAddr, 8*time.Second)
	if err != nil {
		return err
	}
	// deadline covers the whole session so a stalled server can't hang us
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, smtpHost)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	// STARTTLS
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: smtpHost}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", m.gmailUser, m.gmailAppPass, smtpHost)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(m.mailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
