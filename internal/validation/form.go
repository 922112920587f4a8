package validation

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jiten398/single-checkout-flow/internal/entity"
)

// CheckoutForm is the raw form as typed by the customer.
type CheckoutForm struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// Customer drops the payment fields.
func (f CheckoutForm) Customer() entity.Customer {
	return entity.Customer{
		FullName: f.FullName,
		Email:    f.Email,
		Phone:    f.Phone,
		Address:  f.Address,
		City:     f.City,
		State:    f.State,
		ZipCode:  f.ZipCode,
	}
}

// FieldErrors maps a field name to its message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// Merge copies other into fe, prefixing keys when prefix is set.
func (fe FieldErrors) Merge(prefix string, other FieldErrors) {
	for k, v := range other {
		if prefix != "" {
			k = prefix + "." + k
		}
		fe[k] = v
	}
}

// ValidateCheckoutForm runs every rule and returns the normalized form. All
// failing fields are reported together; a nil error means every field passed.
func ValidateCheckoutForm(f CheckoutForm, now time.Time) (CheckoutForm, error) {
	errs := FieldErrors{}
	var out CheckoutForm

	check := func(field string, dst *string, v string, rule func(string) (string, error)) {
		norm, err := rule(v)
		if err != nil {
			errs[field] = err.Error()
			return
		}
		*dst = norm
	}

	check("fullName", &out.FullName, f.FullName, FullName)
	check("email", &out.Email, f.Email, Email)
	check("phone", &out.Phone, f.Phone, Phone)
	check("address", &out.Address, f.Address, Address)
	check("city", &out.City, f.City, City)
	check("state", &out.State, f.State, State)
	check("zipCode", &out.ZipCode, f.ZipCode, ZipCode)
	check("cardNumber", &out.CardNumber, f.CardNumber, CardNumber)
	check("expiryDate", &out.ExpiryDate, f.ExpiryDate, func(s string) (string, error) { return ExpiryDate(s, now) })
	check("cvv", &out.CVV, f.CVV, CVV)

	if len(errs) > 0 {
		return CheckoutForm{}, errs
	}
	return out, nil
}

const maxQuantity = 99

// ValidateProduct checks the product snapshot sent with a checkout.
func ValidateProduct(p entity.ProductSnapshot) error {
	errs := FieldErrors{}
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "Product name is required"
	}
	switch {
	case p.Price <= 0:
		errs["price"] = "Price must be positive"
	case decimal.NewFromFloat(p.Price).Exponent() < -2:
		errs["price"] = "Price cannot have more than 2 decimal places"
	}
	if p.Variant.Color == "" {
		errs["variant.color"] = "Color selection is required"
	}
	if p.Variant.Size == "" {
		errs["variant.size"] = "Size selection is required"
	}
	switch {
	case p.Quantity < 1:
		errs["quantity"] = "Quantity must be at least 1"
	case p.Quantity > maxQuantity:
		errs["quantity"] = "Quantity cannot exceed 99"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateSelection checks a variant choice against the catalog entry.
func ValidateSelection(p entity.Product, v entity.Variant, quantity int) error {
	errs := FieldErrors{}
	if v.Color == "" {
		errs["color"] = "Color selection is required"
	} else if !p.HasColor(v.Color) {
		errs["color"] = "Unknown color"
	}
	if v.Size == "" {
		errs["size"] = "Size selection is required"
	} else if !p.HasSize(v.Size) {
		errs["size"] = "Unknown size"
	}
	switch {
	case quantity < 1:
		errs["quantity"] = "Quantity must be at least 1"
	case quantity > maxQuantity:
		errs["quantity"] = "Quantity cannot exceed 99"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
