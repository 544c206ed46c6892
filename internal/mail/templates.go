package mail

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template names, also used as the metric label.
const (
	JobApplicationReceived = "job_application_received"
	LeadAcknowledgement    = "lead_acknowledgement"
)

type JobApplicationData struct {
	FullName string
	JobTitle string
}

type LeadData struct {
	FullName string
}

type mailTemplate struct {
	subject *template.Template
	body    *template.Template
}

var templates = map[string]mailTemplate{
	JobApplicationReceived: {
		subject: template.Must(template.New("subject").Parse(`Your application for {{.JobTitle}}`)),
		body: template.Must(template.New("body").Parse(`Hi {{.FullName}},

Thank you for applying for the {{.JobTitle}} position. We have received your
application and our team will review it shortly. If your profile matches
what we are looking for, we will get in touch to discuss next steps.

Best regards,
The Infutrix Team
`)),
	},
	LeadAcknowledgement: {
		subject: template.Must(template.New("subject").Parse(`Thanks for contacting Infutrix`)),
		body: template.Must(template.New("body").Parse(`Hi {{.FullName}},

Thanks for reaching out. We have received your message and someone from our
team will get back to you within two business days.

Best regards,
The Infutrix Team
`)),
	},
}

// Render builds the message for the named template.
func Render(name, to string, data any) (Message, error) {
	tmpl, ok := templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown mail template %q", name)
	}
	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", name, err)
	}
	return Message{To: to, Subject: subject.String(), Body: body.String()}, nil
}
