package smtp

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/domain/model/message"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
	"github.com/utilmon-lab/varsel/pkg/utils/logging"
	"gopkg.in/mail.v2"
)

// Client delivers messages over plain SMTP instead of the messaging
// platform. It is meant for environments where party IDs are email
// addresses; the platform's channel selection does not apply here.
type Client struct {
	host     string
	port     int
	username string
	password string
}

var _ interfaces.MessagingGateway = &Client{}

func New(host string, port int, username, password string) *Client {
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

func (c *Client) SendBatch(ctx context.Context, msgs []*message.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	dialer := mail.NewDialer(c.host, c.port, c.username, c.password)
	sender, err := dialer.Dial()
	if err != nil {
		return goerr.Wrap(err, "failed to connect to smtp server",
			goerr.T(errs.TagExternal),
			goerr.V("host", c.host),
			goerr.V("port", c.port))
	}
	defer func() {
		if err := sender.Close(); err != nil {
			logging.From(ctx).Warn("failed to close smtp connection", logging.ErrAttr(err))
		}
	}()

	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return goerr.Wrap(err, "smtp batch aborted")
		}

		m := mail.NewMessage()
		m.SetHeader("From", m.FormatAddress(msg.Sender.EmailAddress, msg.Sender.EmailName))
		m.SetHeader("To", msg.Party.PartyID)
		m.SetHeader("Subject", msg.Subject)
		for _, h := range msg.Headers {
			m.SetHeader("X-"+h.Name, h.Values...)
		}
		m.SetBody("text/plain", msg.Body)

		if err := mail.Send(sender, m); err != nil {
			return goerr.Wrap(err, "failed to send message",
				goerr.T(errs.TagExternal),
				goerr.TV(errutil.PartyIDKey, msg.Party.PartyID))
		}
	}

	return nil
}
