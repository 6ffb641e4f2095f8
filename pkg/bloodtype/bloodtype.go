// Package bloodtype defines the eight ABO/Rh blood types used across
// requests, donors, and message templates.
package bloodtype

import "strings"

type BloodType string

const (
	APositive  BloodType = "A_POSITIVE"
	ANegative  BloodType = "A_NEGATIVE"
	BPositive  BloodType = "B_POSITIVE"
	BNegative  BloodType = "B_NEGATIVE"
	ABPositive BloodType = "AB_POSITIVE"
	ABNegative BloodType = "AB_NEGATIVE"
	OPositive  BloodType = "O_POSITIVE"
	ONegative  BloodType = "O_NEGATIVE"
)

var valid = map[BloodType]bool{
	APositive: true, ANegative: true,
	BPositive: true, BNegative: true,
	ABPositive: true, ABNegative: true,
	OPositive: true, ONegative: true,
}

func (b BloodType) Valid() bool {
	return valid[b]
}

// Human renders the wire form for messages: O_POSITIVE becomes "O+",
// AB_NEGATIVE becomes "AB-".
func (b BloodType) Human() string {
	s := string(b)
	if i := strings.IndexByte(s, '_'); i >= 0 {
		group, rh := s[:i], s[i+1:]
		switch rh {
		case "POSITIVE":
			return group + "+"
		case "NEGATIVE":
			return group + "-"
		}
	}
	return s
}

func (b BloodType) String() string {
	return string(b)
}
