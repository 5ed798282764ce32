package artdeco

import (
	"net/netip"
	"strings"
	"unicode"
)

// Masker applies content-aware masking.
type Masker func(value string) string

var maskers = map[MaskType]Masker{
	MaskSSN:   maskSSN,
	MaskEmail: maskEmail,
	MaskPhone: maskPhone,
	MaskCard:  maskCard,
	MaskIP:    maskIP,
	MaskUUID:  maskUUID,
	MaskIBAN:  maskIBAN,
	MaskName:  maskName,
}

func stars(n int) string {
	return strings.Repeat("*", n)
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lastDigits returns the last four digits, or false when there are fewer.
func lastDigits(value string) (string, int, bool) {
	d := digitsOf(value)
	if len(d) < 4 {
		return "", len(d), false
	}
	return d[len(d)-4:], len(d), true
}

func maskSSN(value string) string {
	last, _, ok := lastDigits(value)
	if !ok {
		return stars(len(value))
	}
	return "***-**-" + last
}

func maskEmail(value string) string {
	at := strings.LastIndex(value, "@")
	if at < 1 {
		return stars(len(value))
	}
	return value[:1] + "***" + value[at:]
}

func maskPhone(value string) string {
	last, n, ok := lastDigits(value)
	switch {
	case !ok:
		return stars(len(value))
	case n >= 10 && strings.HasPrefix(value, "("):
		return "(***) ***-" + last
	case n >= 10:
		return "***-***-" + last
	}
	return "***-" + last
}

func maskCard(value string) string {
	last, n, ok := lastDigits(value)
	if !ok {
		return stars(len(value))
	}
	sep := ""
	switch {
	case strings.Contains(value, " "):
		sep = " "
	case strings.Contains(value, "-"):
		sep = "-"
	default:
		return stars(n-4) + last
	}
	groups := make([]string, (n-4+3)/4, (n-4+3)/4+1)
	for i := range groups {
		groups[i] = "****"
	}
	return strings.Join(append(groups, last), sep)
}

// maskIP keeps the network half of an address: two octets for IPv4, four
// groups for IPv6.
func maskIP(value string) string {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return stars(len(value))
	}
	if addr.Is4() {
		octets := strings.Split(value, ".")
		return octets[0] + "." + octets[1] + ".xxx.xxx"
	}
	groups := strings.Split(addr.StringExpanded(), ":")
	return strings.Join(groups[:4], ":") + ":xxxx:xxxx:xxxx:xxxx"
}

func maskUUID(value string) string {
	parts := strings.Split(value, "-")
	if len(parts) != 5 {
		return stars(len(value))
	}
	return parts[0] + "-****-****-****-************"
}

func maskIBAN(value string) string {
	if len(value) <= 8 {
		return stars(len(value))
	}
	return value[:4] + stars(len(value)-8) + value[len(value)-4:]
}

func maskName(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		r := []rune(w)
		words[i] = string(r[0]) + stars(len(r)-1)
	}
	return strings.Join(words, " ")
}
