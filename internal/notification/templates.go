package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Template names, also used as metric labels.
const (
	TemplateWelcome       = "welcome"
	TemplateSuspended     = "suspended"
	TemplateUnsuspended   = "unsuspended"
	TemplateEventInvite   = "event_invite"
	TemplateEventReminder = "event_reminder"
	TemplateEventJoined   = "event_joined"
)

type emailTemplate struct {
	subject *texttemplate.Template
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

const layoutStart = `<div style="font-family:Arial,sans-serif;max-width:560px;margin:0 auto;color:#222">` +
	`<h2 style="color:#e4572e">iFitness</h2>`
const layoutEnd = `<p style="color:#888;font-size:12px">You are receiving this email because you have an iFitness account.</p></div>`

var templateSources = map[string][3]string{
	TemplateWelcome: {
		`Welcome to iFitness, {{.Name}}!`,
		`<p>Hi {{.Name}},</p><p>Your account is ready. Log your first workout and start building your streak.</p>` +
			`<p><a href="{{.AppURL}}/dashboard">Open your dashboard</a></p>`,
		"Hi {{.Name}},\n\nYour account is ready. Log your first workout and start building your streak.\n\n{{.AppURL}}/dashboard\n",
	},
	TemplateSuspended: {
		`Your iFitness account has been suspended`,
		`<p>Hi {{.Name}},</p><p>Your account has been suspended by an administrator.</p>` +
			`<p><strong>Reason:</strong> {{.Reason}}</p><p>Reply to this email if you believe this is a mistake.</p>`,
		"Hi {{.Name}},\n\nYour account has been suspended by an administrator.\n\nReason: {{.Reason}}\n\nReply to this email if you believe this is a mistake.\n",
	},
	TemplateUnsuspended: {
		`Your iFitness account has been reinstated`,
		`<p>Hi {{.Name}},</p><p>Your account is active again. Welcome back!</p>` +
			`<p><a href="{{.AppURL}}/login">Log in</a></p>`,
		"Hi {{.Name}},\n\nYour account is active again. Welcome back!\n\n{{.AppURL}}/login\n",
	},
	TemplateEventInvite: {
		`You're invited: {{.Event.Title}}`,
		`<p>Hi {{.Name}},</p><p>A new {{.KindLabel}} has been scheduled: <strong>{{.Event.Title}}</strong>.</p>` +
			`<p>{{.Event.Description}}</p><p>When: {{.Start}} – {{.End}}{{if .Event.Location}}<br>Where: {{.Event.Location}}{{end}}</p>` +
			`<p><a href="{{.EventURL}}">View and accept</a></p>`,
		"Hi {{.Name}},\n\nA new {{.KindLabel}} has been scheduled: {{.Event.Title}}.\n\n{{.Event.Description}}\n\nWhen: {{.Start}} - {{.End}}\n{{if .Event.Location}}Where: {{.Event.Location}}\n{{end}}\nView and accept: {{.EventURL}}\n",
	},
	TemplateEventReminder: {
		`Reminder: {{.Event.Title}} starts {{.Start}}`,
		`<p>Hi {{.Name}},</p><p>This is a reminder that <strong>{{.Event.Title}}</strong> starts at {{.Start}}.</p>` +
			`{{if .Event.Location}}<p>Where: {{.Event.Location}}</p>{{end}}<p><a href="{{.EventURL}}">Details</a></p>`,
		"Hi {{.Name}},\n\nThis is a reminder that {{.Event.Title}} starts at {{.Start}}.\n{{if .Event.Location}}Where: {{.Event.Location}}\n{{end}}\nDetails: {{.EventURL}}\n",
	},
	TemplateEventJoined: {
		`You're in: {{.Event.Title}}`,
		`<p>Hi {{.Name}},</p><p>You have joined <strong>{{.Event.Title}}</strong> on {{.Start}}. See you there!</p>` +
			`<p><a href="{{.EventURL}}">Details</a></p>`,
		"Hi {{.Name}},\n\nYou have joined {{.Event.Title}} on {{.Start}}. See you there!\n\nDetails: {{.EventURL}}\n",
	},
}

var templates = mustParseTemplates()

func mustParseTemplates() map[string]emailTemplate {
	out := make(map[string]emailTemplate, len(templateSources))
	for name, src := range templateSources {
		out[name] = emailTemplate{
			subject: texttemplate.Must(texttemplate.New(name + "_subject").Parse(src[0])),
			html:    htmltemplate.Must(htmltemplate.New(name + "_html").Parse(layoutStart + src[1] + layoutEnd)),
			text:    texttemplate.Must(texttemplate.New(name + "_text").Parse(src[2])),
		}
	}
	return out
}

// Render executes the named template for one recipient.
func Render(name, to string, data any) (Message, error) {
	t, ok := templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown email template %q", name)
	}

	var subject, html, text bytes.Buffer
	if err := t.subject.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := t.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}
	if err := t.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	return Message{To: to, Subject: subject.String(), HTML: html.String(), Text: text.String()}, nil
}
