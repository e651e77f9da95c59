// Package suppliers converts heterogeneous supplier payloads from the
// recommendation backend into the uniform display model rendered by clients.
package suppliers

import (
	"encoding/json"
	"fmt"
)

// HistoryItem is one role/content pair of the conversation context sent to
// the recommendation backend.
type HistoryItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Record is a single supplier as returned by the recommendation backend.
// Every attribute except the company name is optional; absent attributes are
// substituted with "N/A" during transformation.
type Record struct {
	CompanyName    string   `json:"company_name"`
	Location       string   `json:"location,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	PriceRange     string   `json:"price_range,omitempty"`
	LeadTime       string   `json:"lead_time,omitempty"`
	MOQ            string   `json:"moq,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Specialties    []string `json:"specialties,omitempty"`
	ResponseTime   string   `json:"response_time,omitempty"`
	Stock          string   `json:"stock,omitempty"`
	TimeZone       string   `json:"time_zone,omitempty"`
	Contact        Contact  `json:"contact,omitempty"`
}

// Contact is a tagged union over the two shapes the backend emits for
// contact information: a structured object with email/phone/website members,
// or a free-text string that has to be parsed.
type Contact struct {
	// Structured is true when the payload carried a JSON object.
	Structured bool

	// Object variant.
	Email   string
	Phone   string
	Website string

	// String variant.
	FreeText string
}

// IsZero reports whether no contact information was provided at all.
func (c Contact) IsZero() bool {
	return !c.Structured && c.FreeText == ""
}

type contactObject struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

// UnmarshalJSON accepts either variant. null and other JSON types decode to
// the zero Contact rather than failing, matching the permissive behavior of
// the rendering layer.
func (c *Contact) UnmarshalJSON(data []byte) error {
	*c = Contact{}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '{':
		var obj contactObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		c.Structured = true
		c.Email = obj.Email
		c.Phone = obj.Phone
		c.Website = obj.Website
		return nil
	case '"':
		return json.Unmarshal(data, &c.FreeText)
	default:
		// Unexpected type (number, array, bool): treat as absent.
		return nil
	}
}

// MarshalJSON re-encodes the variant that was decoded, so records survive a
// round trip through the proxy untouched.
func (c Contact) MarshalJSON() ([]byte, error) {
	if c.Structured {
		return json.Marshal(contactObject{Email: c.Email, Phone: c.Phone, Website: c.Website})
	}
	return json.Marshal(c.FreeText)
}

// String implements fmt.Stringer for log output.
func (c Contact) String() string {
	if c.Structured {
		return fmt.Sprintf("email=%s phone=%s website=%s", c.Email, c.Phone, c.Website)
	}
	return c.FreeText
}
