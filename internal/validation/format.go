package validation

// FormatPhoneNumber renders ten digits as (123) 456-7890.
func FormatPhoneNumber(phone string) string {
	d := DigitsOnly(phone)
	if len(d) != 10 {
		return phone
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

func FormatCardNumber(card string) string {
	d := DigitsOnly(card)
	if len(d) != 16 {
		return card
	}
	return d[:4] + " " + d[4:8] + " " + d[8:12] + " " + d[12:]
}

// MaskCardNumber shows only the last four digits. It accepts either a full
// number or the stored last four.
func MaskCardNumber(card string) string {
	d := DigitsOnly(card)
	if len(d) < 4 {
		return card
	}
	return "**** **** **** " + d[len(d)-4:]
}
