package constants

// Role values carried over from the spreadsheet import format.
const (
	RoleGuest   = "0"
	RoleSpeaker = "1"
)
