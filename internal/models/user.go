package models

// User represents a chat user known to the bot. Discord handles are unique,
// so the username doubles as the primary key. Users are created explicitly
// or implicitly the first time they are assigned to a task; they are never
// deleted.
type User struct {
	Username   string  `gorm:"primaryKey;type:varchar(60)" json:"username"`
	ServerName *string `gorm:"type:varchar(100)" json:"server_name"`

	// Relations
	Assignments []TaskAssignment `gorm:"foreignKey:Username;references:Username" json:"-"`
}
