package constants

// Field Length Limits
const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
	MinNameLength     = 1
	MaxNameLength     = 50
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPhoneLength    = 7
	MaxPhoneLength    = 15
	MaxEmailLength    = 255
)

// BirthdayLayout is the accepted wire format for calendar dates.
const BirthdayLayout = "2006-01-02"
