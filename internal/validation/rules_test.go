package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiten398/single-checkout-flow/internal/entity"
)

var june2024 = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestLuhn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"4532015112830366", true},
		{"4532015112830367", false},
		{"4111111111111111", true},
		{"0000000000000000", true},
		{"1234567812345678", false},
		{"", false},
		{"4532a15112830366", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Luhn(tt.in), tt.in)
	}
}

func TestLuhn_MatchesChecksumForAllCheckDigits(t *testing.T) {
	t.Parallel()

	// Exactly one trailing digit completes a valid number for any 15-digit prefix.
	for _, prefix := range []string{"453201511283036", "411111111111111", "555555555555444"} {
		valid := 0
		for d := '0'; d <= '9'; d++ {
			if Luhn(prefix + string(d)) {
				valid++
			}
		}
		assert.Equal(t, 1, valid, prefix)
	}
}

func TestCardNumber(t *testing.T) {
	t.Parallel()

	got, err := CardNumber("4532 0151 1283 0366")
	require.NoError(t, err)
	assert.Equal(t, "4532015112830366", got)

	_, err = CardNumber("4532015112830367")
	assert.EqualError(t, err, "Invalid card number")

	_, err = CardNumber("4111 1111 1111 111")
	assert.EqualError(t, err, "Invalid card number")
}

func TestExpiryDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		wantErr string
	}{
		{"03/24", "Card has expired"},
		{"06/24", ""},
		{"01/25", ""},
		{"12/23", "Card has expired"},
		{"13/25", "Expiry date must be in MM/YY format"},
		{"6/25", "Expiry date must be in MM/YY format"},
		{"00/25", "Expiry date must be in MM/YY format"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ExpiryDate(tt.in, june2024)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestPhone(t *testing.T) {
	t.Parallel()

	got, err := Phone("(123) 456-7890")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", got)

	_, err = Phone("123-4567")
	assert.EqualError(t, err, "Phone number must be 10 digits")
}

func TestFieldRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rule    func(string) (string, error)
		in      string
		want    string
		wantErr bool
	}{
		{"name ok", FullName, "Mary-Jane O'Neil", "Mary-Jane O'Neil", false},
		{"name short", FullName, "A", "", true},
		{"name digits", FullName, "R2 D2", "", true},
		{"name long", FullName, strings.Repeat("a", 101), "", true},
		{"email lowercased", Email, "Jane.Doe@Example.COM", "jane.doe@example.com", false},
		{"email invalid", Email, "jane@", "", true},
		{"email long", Email, strings.Repeat("a", 95) + "@x.com", "", true},
		{"address ok", Address, "1 Main St", "1 Main St", false},
		{"address short", Address, "1 Ma", "", true},
		{"city ok", City, "New York", "New York", false},
		{"city digits", City, "Area 51", "", true},
		{"state upper", State, "ny", "NY", false},
		{"state long", State, "NYC", "", true},
		{"state digits", State, "1A", "", true},
		{"zip5", ZipCode, "10001", "10001", false},
		{"zip9", ZipCode, "10001-1234", "10001-1234", false},
		{"zip bad", ZipCode, "1000", "", true},
		{"cvv3", CVV, "123", "123", false},
		{"cvv4", CVV, "1234", "1234", false},
		{"cvv5", CVV, "12345", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.rule(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func validForm() CheckoutForm {
	return CheckoutForm{
		FullName:   "Jane Doe",
		Email:      "Jane@Example.com",
		Phone:      "(123) 456-7890",
		Address:    "1 Main Street",
		City:       "New York",
		State:      "ny",
		ZipCode:    "10001",
		CardNumber: "4532 0151 1283 0366",
		ExpiryDate: "12/27",
		CVV:        "123",
	}
}

func TestValidateCheckoutForm_Normalizes(t *testing.T) {
	t.Parallel()

	got, err := ValidateCheckoutForm(validForm(), june2024)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "1234567890", got.Phone)
	assert.Equal(t, "NY", got.State)
	assert.Equal(t, "4532015112830366", got.CardNumber)

	c := got.Customer()
	assert.Equal(t, "Jane Doe", c.FullName)
	assert.Equal(t, "NY", c.State)
}

func TestValidateCheckoutForm_ReportsEveryField(t *testing.T) {
	t.Parallel()

	f := validForm()
	f.FullName = "J"
	f.CardNumber = "4532015112830367"
	f.ExpiryDate = "03/24"
	f.CVV = "1"

	_, err := ValidateCheckoutForm(f, june2024)
	require.Error(t, err)

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Len(t, fe, 4)
	assert.Contains(t, fe, "fullName")
	assert.Contains(t, fe, "cardNumber")
	assert.Equal(t, "Card has expired", fe["expiryDate"])
	assert.Contains(t, fe, "cvv")
	assert.Contains(t, err.Error(), "cardNumber: Invalid card number")
}

func TestValidateProduct(t *testing.T) {
	t.Parallel()

	ok := entity.ProductSnapshot{Name: "Premium T-Shirt", Price: 29.99, Variant: entity.Variant{Color: "Black", Size: "M"}, Quantity: 2}
	assert.NoError(t, ValidateProduct(ok))

	bad := entity.ProductSnapshot{Quantity: 100}
	err := ValidateProduct(bad)
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Quantity cannot exceed 99", fe["quantity"])
	assert.Contains(t, fe, "name")
	assert.Contains(t, fe, "price")
	assert.Contains(t, fe, "variant.color")
	assert.Contains(t, fe, "variant.size")

	fractional := ok
	fractional.Price = 29.999
	err = ValidateProduct(fractional)
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Price cannot have more than 2 decimal places", fe["price"])

	whole := ok
	whole.Price = 30
	assert.NoError(t, ValidateProduct(whole))
}

func TestValidateSelection(t *testing.T) {
	t.Parallel()

	p := entity.Product{Colors: []string{"Black", "White"}, Sizes: []string{"S", "M"}}
	assert.NoError(t, ValidateSelection(p, entity.Variant{Color: "Black", Size: "M"}, 1))

	err := ValidateSelection(p, entity.Variant{Color: "Pink", Size: ""}, 0)
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Unknown color", fe["color"])
	assert.Equal(t, "Size selection is required", fe["size"])
	assert.Equal(t, "Quantity must be at least 1", fe["quantity"])
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "**** **** **** 0366", MaskCardNumber("4532015112830366"))
	assert.Equal(t, "**** **** **** 0366", MaskCardNumber("0366"))
	assert.Equal(t, "12", MaskCardNumber("12"))
	assert.Equal(t, "4532 0151 1283 0366", FormatCardNumber("4532015112830366"))
	assert.Equal(t, "(123) 456-7890", FormatPhoneNumber("1234567890"))
	assert.Equal(t, "12345", FormatPhoneNumber("12345"))
}
