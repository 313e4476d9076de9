package validate

// NormalizeCPF strips the usual "000.000.000-00" punctuation.
func NormalizeCPF(s string) string {
	out := make([]byte, 0, 11)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '-', ' ':
			continue
		}
		out = append(out, s[i])
	}

	return string(out)
}

// IsCPF reports whether s (punctuated or not) is a CPF with valid check digits.
// Sequences of a single repeated digit are rejected.
func IsCPF(s string) bool {
	cpf := NormalizeCPF(s)
	if len(cpf) != 11 {
		return false
	}

	var d [11]int
	same := true
	for i := 0; i < 11; i++ {
		if cpf[i] < '0' || cpf[i] > '9' {
			return false
		}
		d[i] = int(cpf[i] - '0')
		if d[i] != d[0] {
			same = false
		}
	}
	if same {
		return false
	}

	return checkDigit(d[:9]) == d[9] && checkDigit(d[:10]) == d[10]
}

func checkDigit(digits []int) int {
	sum := 0
	weight := len(digits) + 1
	for _, x := range digits {
		sum += x * weight
		weight--
	}

	r := (sum * 10) % 11
	if r == 10 {
		return 0
	}

	return r
}
