// Package whatsapp builds wa.me click-to-chat links for ticket follow-up.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const baseURL = "https://wa.me/"

// LinkBuilder normalises phone numbers and renders wa.me links.
type LinkBuilder struct {
	region       string
	companyPhone string
}

// NewLinkBuilder returns a builder that parses local numbers in region.
func NewLinkBuilder(region, companyPhone string) *LinkBuilder {
	if region == "" {
		region = "ES"
	}
	return &LinkBuilder{region: strings.ToUpper(region), companyPhone: companyPhone}
}

// Normalize returns the phone in E.164 digits without the leading plus.
func (b *LinkBuilder) Normalize(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", fmt.Errorf("phone number required")
	}
	num, err := phonenumbers.Parse(phone, b.region)
	if err != nil {
		return "", fmt.Errorf("parse phone %q: %w", phone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("phone %q is not a valid number for region %s", phone, b.region)
	}
	return strings.TrimPrefix(phonenumbers.Format(num, phonenumbers.E164), "+"), nil
}

// Link renders a wa.me link to phone with a prefilled message.
func (b *LinkBuilder) Link(phone, text string) (string, error) {
	digits, err := b.Normalize(phone)
	if err != nil {
		return "", err
	}
	link := baseURL + digits
	if text != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	}
	return link, nil
}

// CompanyLink renders a link to the company support line.
func (b *LinkBuilder) CompanyLink(text string) (string, error) {
	return b.Link(b.companyPhone, text)
}

// StatusQueryText asks support for the current state of a ticket.
func StatusQueryText(ticketCode string) string {
	return fmt.Sprintf("Hola, tengo el ticket %s y necesito consultar el estado", ticketCode)
}

// CloseRequestText asks support to close a resolved ticket.
func CloseRequestText(ticketCode string) string {
	return fmt.Sprintf("Hola, mi ticket %s ya está resuelto. Por favor, pueden cerrarlo", ticketCode)
}

// GeneralQueryText opens a free-form conversation about a ticket.
func GeneralQueryText(ticketCode string) string {
	return fmt.Sprintf("Hola, tengo una consulta sobre mi ticket %s", ticketCode)
}
