// Supplier record normalization.
//
// Transform flattens a backend supplier record into the fixed-order field
// list the client renders as a card. Every expected attribute is present
// ("N/A" when absent) so cards always have the same rows, with two
// exceptions: Certifications is omitted entirely when empty, and the three
// contact rows fall back to fixed placeholder values.
package suppliers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/metamorphs/supplygenie-backend/internal/domain"
)

// Placeholder contact values used when a field cannot be extracted.
const (
	placeholderEmail   = "contact@example.com"
	placeholderPhone   = "+1-555-0123"
	placeholderWebsite = "www.example.com"
)

const notAvailable = "N/A"

var (
	emailRE = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRE = regexp.MustCompile(`\+?[0-9\s\-()]{10,}`)

	// Website patterns in priority order: explicit scheme wins over a www.
	// form, which wins over a bare domain (a bare domain would otherwise
	// match inside an email address earlier in the text).
	urlRE    = regexp.MustCompile(`https?://\S+`)
	wwwRE    = regexp.MustCompile(`www\.\S+`)
	domainRE = regexp.MustCompile(`[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}(?:/\S*)?`)
)

// Transform produces the display Supplier for one backend record. index is
// the record's position in the response and is folded into the generated id.
func Transform(rec Record, index int) domain.Supplier {
	fields := []domain.SupplierField{
		{Label: "Location", Value: orNA(rec.Location), Type: domain.FieldTypeLocation},
		{Label: "Rating", Value: ratingValue(rec.Rating), Type: domain.FieldTypeRating},
		{Label: "Price Range", Value: orNA(rec.PriceRange), Type: domain.FieldTypePrice},
		{Label: "Lead Time", Value: orNA(rec.LeadTime), Type: domain.FieldTypeTime},
		{Label: "Response Time", Value: orNA(rec.ResponseTime), Type: domain.FieldTypeTime},
		{Label: "MOQ", Value: orNA(rec.MOQ), Type: domain.FieldTypeText},
		{Label: "Stock", Value: orNA(rec.Stock), Type: domain.FieldTypeText},
		{Label: "Time Zone", Value: orNA(rec.TimeZone), Type: domain.FieldTypeText},
	}

	// Certifications is the only attribute omitted when absent; when present
	// it sits between Time Zone and Specialties.
	if len(rec.Certifications) > 0 {
		fields = append(fields, domain.SupplierField{
			Label: "Certifications",
			Value: strings.Join(rec.Certifications, ", "),
			Type:  domain.FieldTypeBadge,
		})
	}
	fields = append(fields, domain.SupplierField{
		Label: "Specialties",
		Value: joinOrNA(rec.Specialties),
		Type:  domain.FieldTypeBadge,
	})

	email, phone, website := contactFields(rec.Contact)
	fields = append(fields,
		domain.SupplierField{Label: "Email", Value: email, Type: domain.FieldTypeText},
		domain.SupplierField{Label: "Phone", Value: phone, Type: domain.FieldTypeText},
		domain.SupplierField{Label: "Website", Value: website, Type: domain.FieldTypeText},
	)

	name := rec.CompanyName
	if name == "" {
		name = "Unknown Supplier"
	}
	return domain.Supplier{
		ID:     fmt.Sprintf("supplier_%d_%d", time.Now().UnixMilli(), index),
		Name:   name,
		Fields: fields,
	}
}

// contactFields extracts email/phone/website from either contact variant,
// substituting the fixed placeholders for anything not found.
func contactFields(c Contact) (email, phone, website string) {
	email, phone, website = placeholderEmail, placeholderPhone, placeholderWebsite

	switch {
	case c.Structured:
		if c.Email != "" {
			email = c.Email
		}
		if c.Phone != "" {
			phone = c.Phone
		}
		if c.Website != "" {
			website = c.Website
		}
	case c.FreeText != "" && c.FreeText != notAvailable:
		if m := emailRE.FindString(c.FreeText); m != "" {
			email = m
		}
		if m := phoneRE.FindString(c.FreeText); m != "" {
			phone = strings.TrimSpace(m)
		}
		if m := findWebsite(c.FreeText); m != "" {
			website = normalizeWebsite(m)
		}
	}
	return email, phone, website
}

// findWebsite tries the three website patterns in priority order.
func findWebsite(s string) string {
	for _, re := range []*regexp.Regexp{urlRE, wwwRE, domainRE} {
		if m := re.FindString(s); m != "" {
			return strings.TrimRight(m, ",.;")
		}
	}
	return ""
}

// normalizeWebsite prefixes scheme-less matches so the value is always a
// clickable https URL: "www.x.com" → "https://www.x.com", "x.com" →
// "https://www.x.com".
func normalizeWebsite(w string) string {
	if strings.HasPrefix(w, "http") {
		return w
	}
	if strings.HasPrefix(w, "www.") {
		return "https://" + w
	}
	return "https://www." + w
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func joinOrNA(vals []string) string {
	if len(vals) == 0 {
		return notAvailable
	}
	return strings.Join(vals, ", ")
}

// ratingValue renders a numeric rating compactly (4.5 → "4.5", 5 → "5").
func ratingValue(r *float64) string {
	if r == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}
