package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/dtroode/blog-server/internal/model"
)

const resetSubject = "Reset your password"

var resetHTML = htmltemplate.Must(htmltemplate.New("reset.html").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Name}},</p>
<p>We received a request to reset your password. Follow the link below to choose a new one:</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>If you did not ask for a reset, you can ignore this email.</p>
</body>
</html>
`))

var resetText = texttemplate.Must(texttemplate.New("reset.txt").Parse(`Hello {{.Name}},

We received a request to reset your password. Open the link below to choose a new one:

{{.Link}}

If you did not ask for a reset, you can ignore this email.
`))

func renderReset(mail model.PasswordResetMail) (html string, text string, err error) {
	var h, t bytes.Buffer
	if err := resetHTML.Execute(&h, mail); err != nil {
		return "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	if err := resetText.Execute(&t, mail); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	return h.String(), t.String(), nil
}
