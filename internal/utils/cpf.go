package utils

import "strings"

// NormalizeCPF strips punctuation, keeping digits only.
func NormalizeCPF(s string) string {
	var out strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// ValidCPF verifies the two CPF check digits. Accepts punctuated or bare input.
func ValidCPF(s string) bool {
	cpf := NormalizeCPF(s)
	if len(cpf) != 11 {
		return false
	}

	// All-equal sequences (000..., 111...) pass the checksum but are not valid.
	same := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			same = false
			break
		}
	}
	if same {
		return false
	}

	digit := func(upTo int) int {
		sum := 0
		for i := 0; i < upTo; i++ {
			sum += int(cpf[i]-'0') * (upTo + 1 - i)
		}
		d := (sum * 10) % 11
		if d == 10 {
			d = 0
		}
		return d
	}

	if digit(9) != int(cpf[9]-'0') {
		return false
	}
	return digit(10) == int(cpf[10]-'0')
}

// FormatCPF renders 11 digits as 000.000.000-00; other lengths pass through.
func FormatCPF(s string) string {
	cpf := NormalizeCPF(s)
	if len(cpf) != 11 {
		return s
	}
	return cpf[0:3] + "." + cpf[3:6] + "." + cpf[6:9] + "-" + cpf[9:11]
}
