package usecase

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	contact "eventdesk-backend/internal/contact/domain"
	"eventdesk-backend/internal/mail/domain"
	settings "eventdesk-backend/internal/settings/domain"
	"eventdesk-backend/internal/state"
	tmpl "eventdesk-backend/internal/template/domain"
	"eventdesk-backend/pkg/csvtable"
	"eventdesk-backend/pkg/htmltext"
)

var (
	ErrCSVMissingEmail   = errors.New("csv must have an 'email' column")
	ErrMappingIncomplete = errors.New("every placeholder and the email column must be mapped")
	ErrNoRecipients      = errors.New("no row produced a recipient")
)

// ColumnMapping maps a placeholder name (and "email") to a CSV header
type ColumnMapping map[string]string

// BulkPlan is a template plus the CSV rows it will be personalized with
type BulkPlan struct {
	Template     tmpl.Template       `json:"template"`
	Placeholders []string            `json:"placeholders"`
	Headers      []string            `json:"headers"`
	Rows         []map[string]string `json:"-"`
	Mapping      ColumnMapping       `json:"mapping"`
}

// BulkPreview reports what a bulk send would produce
type BulkPreview struct {
	BulkPlan
	Valid    bool              `json:"valid"`
	Problems []string          `json:"problems,omitempty"`
	Messages []domain.Outgoing `json:"messages"`
}

// BulkUsecase sends one personalized message per CSV row
type BulkUsecase interface {
	Preview(templateID string, csv io.Reader, mapping ColumnMapping) (*BulkPreview, error)
	Send(templateID string, csv io.Reader, mapping ColumnMapping) ([]domain.Outgoing, error)
}

type bulkUsecase struct {
	store      Store
	translator Translator
}

// NewBulkUsecase creates the bulk send usecase
func NewBulkUsecase(store Store, translator Translator) BulkUsecase {
	return &bulkUsecase{store: store, translator: translator}
}

// TemplatePlaceholders lists the placeholders a CSV must fill: those left
// after workspace values (event name, knowledge base, ...) are applied,
// except the recipient address
func TemplatePlaceholders(t tmpl.Template, s settings.AppSettings) []string {
	return tmpl.Placeholders(tmpl.Render(t.Title, s, nil), tmpl.Render(t.Body, s, nil))
}

// ParseBulkCSV reads the recipient table. Headers keep their case; the
// "email" column is required.
func ParseBulkCSV(r io.Reader) (*csvtable.Table, error) {
	table, err := csvtable.Read(r)
	if err != nil {
		return nil, err
	}
	if table.Index(tmpl.RecipientPlaceholder) < 0 {
		return nil, ErrCSVMissingEmail
	}
	return table, nil
}

// AutoMapping maps "email" to itself and every placeholder that has a
// header of the same name
func AutoMapping(placeholders, headers []string) ColumnMapping {
	has := make(map[string]bool, len(headers))
	for _, h := range headers {
		has[h] = true
	}
	m := ColumnMapping{tmpl.RecipientPlaceholder: tmpl.RecipientPlaceholder}
	for _, p := range placeholders {
		if has[p] {
			m[p] = p
		}
	}
	return m
}

// Validate lists unmapped placeholders, or returns nil when the mapping is
// complete
func (m ColumnMapping) Validate(placeholders []string) error {
	var missing []string
	if m[tmpl.RecipientPlaceholder] == "" {
		missing = append(missing, tmpl.RecipientPlaceholder)
	}
	for _, p := range placeholders {
		if m[p] == "" {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMappingIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// Generate personalizes t for every row. Each message gets its own thread.
// CSV values are escaped in the body and the result is sanitized.
func Generate(t tmpl.Template, s settings.AppSettings, placeholders []string, rows []map[string]string, m ColumnMapping, contacts []contact.Contact) []domain.Outgoing {
	subjectBase := tmpl.Render(t.Title, s, nil)
	bodyBase := tmpl.Render(t.Body, s, nil)

	out := make([]domain.Outgoing, 0, len(rows))
	for _, row := range rows {
		values := make(map[string]string, len(placeholders)+1)
		escaped := make(map[string]string, len(placeholders)+1)
		for _, p := range append([]string{tmpl.RecipientPlaceholder}, placeholders...) {
			values[p] = ""
			if header := m[p]; header != "" {
				values[p] = row[header]
			}
			escaped[p] = html.EscapeString(values[p])
		}
		recipients := ParseRecipients(row[m[tmpl.RecipientPlaceholder]], contacts)
		if len(recipients) == 0 {
			continue
		}
		out = append(out, domain.Outgoing{
			Recipients: recipients,
			Subject:    tmpl.Substitute(subjectBase, values),
			Body:       htmltext.Sanitize(tmpl.Substitute(bodyBase, escaped)),
		})
	}
	return out
}

func (u *bulkUsecase) plan(templateID string, csv io.Reader, mapping ColumnMapping) (*BulkPlan, *state.State, error) {
	s := u.store.GetState()
	t, ok := s.FindTemplate(templateID)
	if !ok {
		return nil, nil, tmpl.ErrTemplateNotFound
	}
	table, err := ParseBulkCSV(csv)
	if err != nil {
		return nil, nil, err
	}

	placeholders := TemplatePlaceholders(t, s.Settings)
	if mapping == nil {
		mapping = AutoMapping(placeholders, table.Headers)
	}

	rows := make([]map[string]string, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = table.Record(r)
	}
	return &BulkPlan{
		Template:     t,
		Placeholders: placeholders,
		Headers:      table.Headers,
		Rows:         rows,
		Mapping:      mapping,
	}, s, nil
}

func (u *bulkUsecase) Preview(templateID string, csv io.Reader, mapping ColumnMapping) (*BulkPreview, error) {
	p, s, err := u.plan(templateID, csv, mapping)
	if err != nil {
		return nil, err
	}
	preview := &BulkPreview{BulkPlan: *p, Valid: true, Messages: []domain.Outgoing{}}
	if err := p.Mapping.Validate(p.Placeholders); err != nil {
		preview.Valid = false
		preview.Problems = append(preview.Problems, err.Error())
		return preview, nil
	}
	preview.Messages = Generate(p.Template, s.Settings, p.Placeholders, p.Rows, p.Mapping, s.Contacts)
	return preview, nil
}

func (u *bulkUsecase) Send(templateID string, csv io.Reader, mapping ColumnMapping) ([]domain.Outgoing, error) {
	p, s, err := u.plan(templateID, csv, mapping)
	if err != nil {
		return nil, err
	}
	if err := p.Mapping.Validate(p.Placeholders); err != nil {
		return nil, err
	}
	messages := Generate(p.Template, s.Settings, p.Placeholders, p.Rows, p.Mapping, s.Contacts)
	if len(messages) == 0 {
		return nil, ErrNoRecipients
	}
	if err := validateAddresses(recipientsOf(messages)); err != nil {
		return nil, err
	}

	u.store.Dispatch(state.SendPersonalizedBulkEmail{Messages: messages})
	u.store.Dispatch(state.AddNotification{
		Message: u.translator.TPlural("bulk_sent", len(messages)),
		Kind:    state.NotifySuccess,
	})
	return messages, nil
}

func recipientsOf(messages []domain.Outgoing) []domain.Sender {
	var all []domain.Sender
	for _, m := range messages {
		all = append(all, m.Recipients...)
	}
	return all
}
