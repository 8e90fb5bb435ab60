package domain

import "fmt"

const maxNameLength = 12

// Name identifies an account on the ledger.
// Valid names are 1-12 characters from [a-z1-5.] and never end with a dot.
type Name string

// ParseName validates s and returns it as a Name.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if !n.IsValid() {
		return "", fmt.Errorf("invalid account name %q", s)
	}
	return n, nil
}

// IsValid reports whether the name is well-formed.
func (n Name) IsValid() bool {
	if len(n) == 0 || len(n) > maxNameLength {
		return false
	}
	for i := 0; i < len(n); i++ {
		c := n[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '1' && c <= '5':
		case c == '.':
		default:
			return false
		}
	}
	return n[len(n)-1] != '.'
}

func (n Name) String() string {
	return string(n)
}
