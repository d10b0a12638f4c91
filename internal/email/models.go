package email

// ContentTypePDF is the media type of invoice attachments
const ContentTypePDF = "application/pdf"

// SendInvoiceRequest asks for one rendered invoice to be mailed.
// Example:
//
//	{
//		"to": "billing@example.com",
//		"subject": "invoice ready",
//		"body": "invoice can be found in attachment",
//		"attachment_path": "/tmp/INV_01HQ3Z5V9J1K8N7M6R4T2W0XYZ.pdf",
//		"attachment_name": "Invoice"
//	}
type SendInvoiceRequest struct {
	To             string `json:"to" validate:"required,email"`
	Subject        string `json:"subject" validate:"required"`
	Body           string `json:"body"`
	AttachmentPath string `json:"attachment_path" validate:"required"`
	AttachmentName string `json:"attachment_name" validate:"required"`
}

// SendInvoiceResponse reports the transport's message id
type SendInvoiceResponse struct {
	MessageID string `json:"message_id"`
	Provider  string `json:"provider"`
}

// Attachment is a file carried by a Message
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is the transport-neutral email handed to a Transport
type Message struct {
	From        string
	To          []string
	ReplyTo     string
	Subject     string
	Text        string
	Attachments []Attachment
}
