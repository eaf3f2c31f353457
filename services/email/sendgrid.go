package emailsvc

import (
	"log"
	"net/mail"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/adrsy6394/SkillSpring/core"
)

type sendgridService struct {
	client           *sendgrid.Client
	defaultFromEmail mail.Address
	subjPrefix       string
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config) core.EmailService {
	return &sendgridService{
		client:           sendgrid.NewSendClient(conf.SendgridApiKey),
		defaultFromEmail: conf.DefaultFromEmail(),
		subjPrefix:       "[" + conf.AppName + "] ",
	}
}

func (svc sendgridService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go svc.sendMessage(msg)
	}
}

func (svc sendgridService) sendMessage(msg *core.EmailMessage) {
	if err := msg.Render(); err != nil {
		log.Printf("%+v", errors.Wrap(err, "rendering email"))
		return
	}
	if msg.HasRecipients() && msg.HasContent() {
		if err := svc.send(*msg); err != nil {
			log.Printf("%+v", errors.Wrap(err, "sending email"))
		}
	}
}

func (svc sendgridService) send(msg core.EmailMessage) error {
	from := sgmail.NewEmail(svc.defaultFromEmail.Name, svc.defaultFromEmail.Address)
	subject := svc.subjPrefix + msg.Subject

	p := sgmail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(sgmail.NewEmail(cc.Name, cc.Address))
	}
	for _, bcc := range msg.Bcc {
		p.AddBCCs(sgmail.NewEmail(bcc.Name, bcc.Address))
	}

	sgMsg := sgmail.NewV3Mail()
	sgMsg.SetFrom(from)
	sgMsg.Subject = subject
	sgMsg.AddPersonalizations(p)
	if msg.TextContent != "" {
		sgMsg.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	}
	if msg.HTMLContent != "" {
		sgMsg.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}

	resp, err := svc.client.Send(sgMsg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return errors.Errorf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
