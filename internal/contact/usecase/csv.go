package usecase

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"eventdesk-backend/internal/contact/domain"
	"eventdesk-backend/pkg/csvtable"

	"github.com/badoux/checkmail"
)

var (
	ErrCSVMissingColumns = errors.New("csv must have 'name' and 'email' columns")
	ErrCSVTooShort       = csvtable.ErrTooShort
)

// RejectedRow is a data row that was left out of an import
type RejectedRow struct {
	Line   int    `json:"line"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// ParsedContacts is the outcome of reading a contact CSV
type ParsedContacts struct {
	Contacts []domain.ImportedContact `json:"contacts"`
	Rejected []RejectedRow            `json:"rejected,omitempty"`
}

// ParseContactsCSV reads name, email, affiliation and requiredcc columns.
// Header names are matched case-insensitively; name and email are required.
// Rows missing either value are skipped silently, rows with a malformed
// address are skipped and reported.
func ParseContactsCSV(r io.Reader) (*ParsedContacts, error) {
	table, err := csvtable.Read(r)
	if err != nil {
		return nil, err
	}
	for i, h := range table.Headers {
		table.Headers[i] = strings.ToLower(h)
	}

	nameCol := table.Index("name")
	emailCol := table.Index("email")
	if nameCol < 0 || emailCol < 0 {
		return nil, ErrCSVMissingColumns
	}
	affCol := table.Index("affiliation")
	ccCol := table.Index("requiredcc")

	out := &ParsedContacts{Contacts: []domain.ImportedContact{}}
	for i, row := range table.Rows {
		name := csvtable.Cell(row, nameCol)
		email := csvtable.Cell(row, emailCol)
		if name == "" || email == "" {
			continue
		}
		if err := checkmail.ValidateFormat(email); err != nil {
			out.Rejected = append(out.Rejected, RejectedRow{Line: i + 2, Email: email, Reason: err.Error()})
			continue
		}

		c := domain.ImportedContact{Name: name, Email: email}
		if aff := csvtable.Cell(row, affCol); aff != "" {
			c.Affiliation = &aff
		}
		for _, cc := range strings.Split(csvtable.Cell(row, ccCol), ";") {
			if cc = strings.TrimSpace(cc); cc != "" {
				c.RequiredCC = append(c.RequiredCC, cc)
			}
		}
		out.Contacts = append(out.Contacts, c)
	}
	return out, nil
}

func (r RejectedRow) String() string {
	return fmt.Sprintf("line %d (%s): %s", r.Line, r.Email, r.Reason)
}
