package chain

import (
	"fmt"
	"strings"
)

const (
	// MinAccountIDLen is the shortest valid account id.
	MinAccountIDLen = 2
	// MaxAccountIDLen is the longest valid account id.
	MaxAccountIDLen = 64
)

// ValidateAccountID checks id against the account naming grammar: 2 to 64
// characters, dot-separated parts made of lower-case letters and digits
// joined by single '-' or '_' separators.
func ValidateAccountID(id string) error {
	if len(id) < MinAccountIDLen || len(id) > MaxAccountIDLen {
		return fmt.Errorf("%w: %q: length must be in [%d, %d]", ErrInvalidAccountID, id, MinAccountIDLen, MaxAccountIDLen)
	}
	for _, part := range strings.Split(id, ".") {
		if !checkPart(part) {
			return fmt.Errorf("%w: %q: bad part %q", ErrInvalidAccountID, id, part)
		}
	}
	return nil
}

// checkPart validates a single dot-separated part of an account id.
func checkPart(part string) bool {
	if len(part) == 0 {
		return false
	}
	if !isAlNum(part[0]) || !isAlNum(part[len(part)-1]) {
		return false
	}
	for i := 1; i < len(part)-1; i++ {
		c := part[i]
		if isAlNum(c) {
			continue
		}
		if c != '-' && c != '_' {
			return false
		}
		if !isAlNum(part[i+1]) {
			return false
		}
	}
	return true
}

func isAlNum(c uint8) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// ParentAccount returns the direct parent of id and false for top-level
// accounts.
func ParentAccount(id string) (string, bool) {
	i := strings.IndexByte(id, '.')
	if i < 0 {
		return "", false
	}
	return id[i+1:], true
}

// IsDirectSubAccount checks whether sub is "<part>.<parent>".
func IsDirectSubAccount(sub, parent string) bool {
	p, ok := ParentAccount(sub)
	return ok && p == parent
}
