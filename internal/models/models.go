package models

// User is the account record. ActivationLink is the opaque token mailed
// to the address on registration; it is never cleared, so a used link
// keeps resolving to its user.
type User struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          string `gorm:"unique;not null"          json:"email"`
	PasswordHash   string `gorm:"not null"                 json:"-"`
	IsActivated    bool   `gorm:"default:false"            json:"is_activated"`
	ActivationLink string `gorm:"uniqueIndex;not null"     json:"-"`
}

// Token holds the single live refresh token of a user. The unique index
// on UserID backs the one-session-per-user policy: logins and refreshes
// overwrite this row instead of appending.
type Token struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint   `gorm:"uniqueIndex;not null"     json:"user_id"`
	RefreshToken string `gorm:"not null"                 json:"refresh_token"`
}
