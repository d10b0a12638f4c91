package invoice

import (
	"regexp"
	"strings"
	"time"

	"github.com/flexprice/costinvoice/internal/types"
)

// Party is the billed client printed on the invoice
type Party struct {
	CompanyName   string `json:"company_name"`
	ContactPerson string `json:"contact_person"`
	ContactEmail  string `json:"contact_email"`
}

// Metadata identifies an invoice. It is generated per request and never stored.
type Metadata struct {
	Number  string    `json:"number"`
	Created time.Time `json:"created"`
	DueDate time.Time `json:"due_date"`
	Party
}

// NewMetadata numbers an invoice created at now. The number is a ulid, so
// it is unique per invocation and sorts by creation time.
func NewMetadata(now time.Time, paymentTermMonths int, party Party) Metadata {
	created := now.UTC().Truncate(24 * time.Hour)
	return Metadata{
		Number:  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		Created: created,
		DueDate: types.AddClampedDate(created, 0, paymentTermMonths, 0),
		Party:   party,
	}
}

var nonWordRunes = regexp.MustCompile(`\W`)

// FileName derives the PDF file name from the invoice number: upper-cased,
// every non-word character replaced by an underscore.
func (m Metadata) FileName() string {
	return nonWordRunes.ReplaceAllString(strings.ToUpper(m.Number), "_") + ".pdf"
}
