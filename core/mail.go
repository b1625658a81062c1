package core

import (
	"bytes"
	htmltmpl "html/template"
	"io/fs"
	"net/mail"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var (
	textTemplates *texttmpl.Template
	htmlTemplates *htmltmpl.Template
	tmplInit      sync.Once
	tmplErr       error

	// TemplatesFS is the file system mail templates are loaded from.
	// Set by the fs package blank import in the apps.
	TemplatesFS fs.FS
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// ContextData wraps the template data with app-wide context.
	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func loadTemplates() {
	if TemplatesFS == nil {
		return
	}
	textTemplates, tmplErr = texttmpl.ParseFS(TemplatesFS, "templates/*.txt")
	if tmplErr != nil {
		return
	}
	htmlTemplates, tmplErr = htmltmpl.ParseFS(TemplatesFS, "templates/*.gohtml")
}

// Render renders the message's text and HTML contents from its template (if any).
func (m *EmailMessage) Render(conf *Config) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}

	tmplInit.Do(loadTemplates)
	if tmplErr != nil {
		return errors.Wrap(tmplErr, "parsing mail templates")
	}

	data := ContextData{
		AppName:         conf.AppName,
		FrontendBaseURL: conf.FrontendBaseURL,
		Data:            m.TemplateData,
	}

	if textTemplates != nil {
		if tmpl := textTemplates.Lookup(m.TemplateName + ".txt"); tmpl != nil {
			var buff bytes.Buffer
			if err := tmpl.Execute(&buff, data); err != nil {
				return errors.Wrapf(err, "rendering %s.txt", m.TemplateName)
			}
			m.TextContent = buff.String()
		}
	}
	if htmlTemplates != nil {
		if tmpl := htmlTemplates.Lookup(m.TemplateName + ".gohtml"); tmpl != nil {
			var buff bytes.Buffer
			if err := tmpl.Execute(&buff, data); err != nil {
				return errors.Wrapf(err, "rendering %s.gohtml", m.TemplateName)
			}
			m.HTMLContent = buff.String()
		}
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To)+len(m.Cc)+len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return strings.TrimSpace(m.TextContent) != "" || strings.TrimSpace(m.HTMLContent) != ""
}

func (m *EmailMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}
