package domain

import "errors"

// Tax document errors
var (
	// ErrInvalidCPF is returned when an individual taxpayer number fails its check digits.
	ErrInvalidCPF = errors.New("invalid CPF")

	// ErrInvalidCNPJ is returned when a company taxpayer number fails its check digits.
	ErrInvalidCNPJ = errors.New("invalid CNPJ")
)

// ValidCPF reports whether s is an 11-digit CPF with correct check digits.
// Sequences of a single repeated digit are rejected.
func ValidCPF(s string) bool {
	d, ok := digits(s, 11)
	if !ok || allSame(d) {
		return false
	}

	for n := 9; n <= 10; n++ {
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * (n + 1 - i)
		}
		check := (sum * 10) % 11
		if check == 10 {
			check = 0
		}
		if check != d[n] {
			return false
		}
	}
	return true
}

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidCNPJ reports whether s is a 14-digit CNPJ with correct check digits.
// Sequences of a single repeated digit are rejected.
func ValidCNPJ(s string) bool {
	d, ok := digits(s, 14)
	if !ok || allSame(d) {
		return false
	}

	for pos, weights := range [][]int{cnpjFirstWeights, cnpjSecondWeights} {
		sum := 0
		for i, w := range weights {
			sum += d[i] * w
		}
		check := 0
		if r := sum % 11; r >= 2 {
			check = 11 - r
		}
		if check != d[12+pos] {
			return false
		}
	}
	return true
}

func digits(s string, n int) ([]int, bool) {
	if len(s) != n {
		return nil, false
	}
	d := make([]int, n)
	for i := 0; i < n; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, false
		}
		d[i] = int(c - '0')
	}
	return d, true
}

func allSame(d []int) bool {
	for _, v := range d[1:] {
		if v != d[0] {
			return false
		}
	}
	return true
}
