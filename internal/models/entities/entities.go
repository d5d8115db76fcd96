package entities

import "time"

// User is a registered conference participant. UID doubles as the
// participant's email address for imported members; a uuid is generated
// when no uid is provided.
type User struct {
	UID      string `gorm:"column:uid;primaryKey" db:"uid" json:"uid"`
	SNP      string `gorm:"column:snp" db:"snp" json:"snp"`
	Phone    string `gorm:"column:phone" db:"phone" json:"phone"`
	IsAdmin  bool   `gorm:"column:is_admin" db:"is_admin" json:"is_admin"`
	TgChatID *int64 `gorm:"column:tg_chat_id" db:"tg_chat_id" json:"tg_chat_id"`
}

func (User) TableName() string { return "users" }

// Event is a single conference session. Key is generated when omitted.
type Event struct {
	Key              string    `gorm:"column:key;primaryKey" db:"key" json:"key"`
	Title            string    `gorm:"column:title" db:"title" json:"title"`
	StartTime        time.Time `gorm:"column:start_time" db:"start_time" json:"start_time"`
	EndTime          time.Time `gorm:"column:end_time" db:"end_time" json:"end_time"`
	Venue            string    `gorm:"column:venue" db:"venue" json:"venue"`
	VenueDescription string    `gorm:"column:venue_description" db:"venue_description" json:"venue_description"`
}

func (Event) TableName() string { return "events" }

// Role is a lookup value for the part a user plays at an event.
type Role struct {
	Value string `gorm:"column:value;primaryKey" db:"value" json:"value"`
}

func (Role) TableName() string { return "roles" }

// RSVPLink ties a user to an event with a role. UIDKey is the composite
// primary key uid + "_" + key. Acknowledgment holds the user's free-text
// reply to a reminder, nil until they answer.
type RSVPLink struct {
	UIDKey         string  `gorm:"column:uid_key;primaryKey" db:"uid_key" json:"uid_key"`
	UID            string  `gorm:"column:uid" db:"uid" json:"uid"`
	Key            string  `gorm:"column:key" db:"key" json:"key"`
	Role           string  `gorm:"column:role" db:"role" json:"role"`
	Acknowledgment *string `gorm:"column:acknowledgment" db:"acknowledgment" json:"acknowledgment"`
}

func (RSVPLink) TableName() string { return "rsvp_links" }

// Token is a one-shot moderator activation code. Vacant flips to false
// once the token has been redeemed.
type Token struct {
	Token  string `gorm:"column:token;primaryKey" db:"token" json:"token"`
	Vacant bool   `gorm:"column:vacant" db:"vacant" json:"vacant"`
}

func (Token) TableName() string { return "tokens" }
