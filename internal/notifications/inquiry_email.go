package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/inquiries"
)

const inquiryNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New contact inquiry</h3>
  <p><strong>Name:</strong> {{.FullName}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Purpose:</strong> {{.Purpose}}</p>
  <p><strong>Message:</strong><br/>{{.Message}}</p>
  <p><strong>ID:</strong> {{.ID}}</p>
</body>
</html>`

var inquiryNotificationTmpl = template.Must(template.New("inquiry_notification").Parse(inquiryNotificationTemplate))

func (c *BrevoClient) SendInquiryNotification(ctx context.Context, item inquiries.Inquiry) (string, error) {
	if c == nil {
		return "", errNilClient
	}
	var buf bytes.Buffer
	if err := inquiryNotificationTmpl.Execute(&buf, item); err != nil {
		return "", err
	}
	subject := fmt.Sprintf("Contact inquiry: %s", item.Purpose)
	return c.sendHTML(ctx, c.notifyEmail, c.senderName, item.Email, subject, buf.String())
}
