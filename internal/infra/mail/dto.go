package mail

import "gopkg.in/gomail.v2"

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string

	dialer dialer
}
