// internal/domain/checkout/entity.go
package checkout

import (
	"fmt"
	"strings"
)

// Status is the client-observed state of a payment confirmation.
// Everything except StatusChecking is terminal: once reached, no further
// automatic transition occurs.
type Status string

const (
	StatusChecking Status = "checking"
	StatusSuccess  Status = "success"
	StatusExpired  Status = "expired"
	StatusTimeout  Status = "timeout"
	StatusError    Status = "error"
)

// Terminal reports whether the status ends the confirmation flow.
func (s Status) Terminal() bool {
	return s != StatusChecking
}

// ShippingAddress is the address collected by the checkout form. The
// cart itself is read server-side from the authenticated identity and is
// never sent with the order.
type ShippingAddress struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// Validate checks the required fields, mirroring the checkout form.
func (a ShippingAddress) Validate() error {
	required := []struct {
		value, field string
	}{
		{a.FullName, "full_name"},
		{a.Phone, "phone"},
		{a.AddressLine1, "address_line1"},
		{a.City, "city"},
		{a.State, "state"},
		{a.Pincode, "pincode"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("please fill in %s", strings.ReplaceAll(r.field, "_", " "))
		}
	}
	return nil
}
