package email

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

// QuoteEmailData feeds the quote email template.
type QuoteEmailData struct {
	Greeting        string
	DocumentTitle   string
	DocumentNumber  string
	Total           string
	MoveDate        string
	ConfirmationURL string
	QRContentID     string
	CompanyName     string
	CompanyPhone    string
	CompanyEmail    string
	CompanyWebsite  string
}

var quoteTemplate = template.Must(template.New("quote").Parse(quoteEmailTemplate))

// RenderQuoteEmail renders the HTML body for a quote or invoice email.
func RenderQuoteEmail(data QuoteEmailData) (string, error) {
	var buf bytes.Buffer
	if err := quoteTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

var (
	tagPattern   = regexp.MustCompile(`(?s)<(style|head)[^>]*>.*?</(style|head)>|<[^>]+>`)
	blankPattern = regexp.MustCompile(`\n\s*\n+`)
)

// PlainText derives the text/plain alternative from an HTML body.
func PlainText(body string) string {
	body = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "</p>", "\n\n", "</tr>", "\n").Replace(body)
	body = html.UnescapeString(tagPattern.ReplaceAllString(body, ""))
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(blankPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

const quoteEmailTemplate = `<!DOCTYPE html>
<html lang="de">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.DocumentTitle}} {{.DocumentNumber}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: Helvetica, Arial, sans-serif; background-color: #f4f6f8;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 32px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
                    <tr>
                        <td style="background-color: #1f3a5f; padding: 28px 30px;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 22px;">{{.CompanyName}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 32px 30px; color: #333333; font-size: 15px; line-height: 1.6;">
                            <p>{{.Greeting}}</p>
                            <p>anbei erhalten Sie unser{{if eq .DocumentTitle "Rechnung"}}e{{end}} {{.DocumentTitle}} Nr. <strong>{{.DocumentNumber}}</strong> als PDF.</p>
                            <p>Gesamtbetrag: <strong>{{.Total}}</strong>{{if .MoveDate}}<br>Umzugstermin: {{.MoveDate}}{{end}}</p>
                            {{if .ConfirmationURL}}
                            <p>Sie können das Angebot direkt online bestätigen:</p>
                            <p style="text-align: center; margin: 28px 0;">
                                <a href="{{.ConfirmationURL}}" style="display: inline-block; background-color: #2e7d32; color: #ffffff; text-decoration: none; padding: 12px 28px; border-radius: 6px; font-weight: bold;">Angebot bestätigen</a>
                            </p>
                            {{if .QRContentID}}
                            <p style="text-align: center;"><img src="cid:{{.QRContentID}}" alt="QR-Code zur Bestätigung" width="160" height="160"></p>
                            {{end}}
                            <p style="font-size: 13px; color: #666666;">Falls der Button nicht funktioniert, öffnen Sie diesen Link: {{.ConfirmationURL}}</p>
                            {{end}}
                            <p>Bei Fragen erreichen Sie uns jederzeit.</p>
                            <p>Mit freundlichen Grüßen<br>{{.CompanyName}}</p>
                        </td>
                    </tr>
                    <tr>
                        <td style="background-color: #f0f2f4; padding: 18px 30px; font-size: 12px; color: #777777;">
                            {{if .CompanyPhone}}Tel. {{.CompanyPhone}}{{end}}{{if .CompanyEmail}} | {{.CompanyEmail}}{{end}}{{if .CompanyWebsite}} | {{.CompanyWebsite}}{{end}}
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
