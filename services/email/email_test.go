package emailsvc

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kalamu/core"
	"github.com/trezcool/kalamu/fs"
	"github.com/trezcool/kalamu/testutil"
)

type noticeData struct {
	Title string
	Text  string
	Body  string
	Link  string
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	conf := testutil.Config()
	logger := testutil.NewLogger(conf)
	core.ParseEmailTemplates(appfs.FS, conf, logger)
	svc := NewConsoleServiceMock(conf, logger)

	to := []mail.Address{{Name: "Board", Address: "board@test.cd"}}
	svc.SendMessages(
		&core.EmailMessage{
			To:           to,
			Subject:      "New notice",
			TemplateName: "notice_published",
			TemplateData: noticeData{Title: "Exams", Text: "Start on Monday", Body: "<p>Start on Monday</p>", Link: "https://example.com"},
		},
		&core.EmailMessage{To: to, Subject: "plain", BodyStr: "just text"},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "dropped"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 2)

	assert.True(t, strings.Contains(sent[0].TextContent, "A new notice was published: Exams"))
	assert.Contains(t, sent[0].TextContent, "Read more: https://example.com")
	assert.Contains(t, sent[0].TextContent, conf.FrontendBaseURL)
	assert.Contains(t, sent[0].HTMLContent, "<h2>Exams</h2>")
	assert.Contains(t, sent[0].HTMLContent, "&lt;p&gt;", "plain strings are escaped by html/template")

	assert.Equal(t, "just text", sent[1].TextContent)
	assert.Empty(t, sent[1].HTMLContent)
}

func TestSendgridService_prepare(t *testing.T) {
	conf := testutil.Config()
	svc := NewSendgridService(conf, testutil.NewLogger(conf)).(*sendgridService)

	m := svc.prepare(core.EmailMessage{
		To:          []mail.Address{{Name: "Board", Address: "board@test.cd"}},
		Cc:          []mail.Address{{Address: "cc@test.cd"}},
		Subject:     "Hello",
		TextContent: "text",
	})

	require.Len(t, m.Personalizations, 1)
	p := m.Personalizations[0]
	assert.Equal(t, "[Kalamu] Hello", p.Subject)
	require.Len(t, p.To, 1)
	assert.Equal(t, "board@test.cd", p.To[0].Address)
	require.Len(t, p.CC, 1)
	assert.Equal(t, "noreply@localhost", m.From.Address)
	assert.Equal(t, "Kalamu", m.From.Name)
	require.Len(t, m.Content, 1, "no html part without html content")
	assert.Equal(t, "text/plain", m.Content[0].Type)
}
