// Package checkout runs the simulated payment form and places the order.
package checkout

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field is a form input name.
type Field string

const (
	FieldEmail      Field = "email"
	FieldFirstName  Field = "firstName"
	FieldLastName   Field = "lastName"
	FieldAddress    Field = "address"
	FieldCity       Field = "city"
	FieldState      Field = "state"
	FieldZipCode    Field = "zipCode"
	FieldCardName   Field = "cardName"
	FieldCardNumber Field = "cardNumber"
	FieldExpiryDate Field = "expiryDate"
	FieldCVV        Field = "cvv"
)

// Fields lists every input in display order. All of them are required.
var Fields = []Field{
	FieldEmail,
	FieldFirstName, FieldLastName, FieldAddress, FieldCity, FieldState, FieldZipCode,
	FieldCardName, FieldCardNumber, FieldExpiryDate, FieldCVV,
}

// MaxLength holds the length limits of the payment inputs.
var MaxLength = map[Field]int{
	FieldCardNumber: 19,
	FieldExpiryDate: 5,
	FieldCVV:        4,
}

// Form is the checkout record. It is never persisted.
type Form struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

func (f *Form) ref(field Field) *string {
	switch field {
	case FieldEmail:
		return &f.Email
	case FieldFirstName:
		return &f.FirstName
	case FieldLastName:
		return &f.LastName
	case FieldAddress:
		return &f.Address
	case FieldCity:
		return &f.City
	case FieldState:
		return &f.State
	case FieldZipCode:
		return &f.ZipCode
	case FieldCardName:
		return &f.CardName
	case FieldCardNumber:
		return &f.CardNumber
	case FieldExpiryDate:
		return &f.ExpiryDate
	case FieldCVV:
		return &f.CVV
	}
	return nil
}

// Set updates one field by its input name.
func (f *Form) Set(field Field, value string) error {
	p := f.ref(field)
	if p == nil {
		return fmt.Errorf("unknown checkout field %q", field)
	}
	*p = value
	return nil
}

func (f Form) Get(field Field) string {
	if p := f.ref(field); p != nil {
		return *p
	}
	return ""
}

// ValidationError lists the fields that block submission.
type ValidationError struct {
	Missing []Field
	TooLong []Field
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "required: "+joinFields(e.Missing))
	}
	if len(e.TooLong) > 0 {
		parts = append(parts, "too long: "+joinFields(e.TooLong))
	}
	return "Please complete the form (" + strings.Join(parts, "; ") + ")"
}

func joinFields(fs []Field) string {
	ss := make([]string, len(fs))
	for i, f := range fs {
		ss[i] = string(f)
	}
	return strings.Join(ss, ", ")
}

// Validate checks presence and length only. Card, expiry and CVV formats
// are not checked.
func (f Form) Validate() error {
	var ve ValidationError
	for _, field := range Fields {
		v := f.Get(field)
		if strings.TrimSpace(v) == "" {
			ve.Missing = append(ve.Missing, field)
			continue
		}
		if limit, ok := MaxLength[field]; ok && utf8.RuneCountInString(v) > limit {
			ve.TooLong = append(ve.TooLong, field)
		}
	}
	if len(ve.Missing) == 0 && len(ve.TooLong) == 0 {
		return nil
	}
	return &ve
}

// ShippingAddress formats the address fields on one line.
func (f Form) ShippingAddress() string {
	return fmt.Sprintf("%s %s, %s, %s, %s %s",
		strings.TrimSpace(f.FirstName), strings.TrimSpace(f.LastName),
		strings.TrimSpace(f.Address), strings.TrimSpace(f.City),
		strings.TrimSpace(f.State), strings.TrimSpace(f.ZipCode))
}

// CardLast4 returns the last four digits of the card number.
func (f Form) CardLast4() string {
	var digits []rune
	for _, r := range f.CardNumber {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return string(digits)
}
