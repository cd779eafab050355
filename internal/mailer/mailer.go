package mailer

import "github.com/rs/zerolog"

// Mailer delivers magic sign-in links. The default implementation logs
// the link instead of sending real mail; production wires an actual
// provider behind the same interface.
type Mailer interface {
	SendMagicLink(email, link string) error
}

type LogMailer struct {
	logger zerolog.Logger
}

func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendMagicLink(email, link string) error {
	m.logger.Info().
		Str("to", email).
		Str("link", link).
		Msg("magic sign-in link issued")
	return nil
}
