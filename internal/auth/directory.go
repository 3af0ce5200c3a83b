package auth

// User is an authorized identity. Its ID is the email it was registered
// under.
type User struct {
	ID string
}

// Directory is the immutable allow-list of users permitted to sign in. It is
// populated once at startup from configuration and never mutated, so it is
// safe for concurrent lookups without locking. Emails added to configuration
// after process start are not picked up without a restart.
type Directory struct {
	users map[string]User
}

// NewDirectory builds a directory from the authorized email list.
func NewDirectory(emails []string) *Directory {
	users := make(map[string]User, len(emails))
	for _, email := range emails {
		users[email] = User{ID: email}
	}
	return &Directory{users: users}
}

// Lookup returns the user registered under email. Matching is an exact,
// case-sensitive map lookup.
func (d *Directory) Lookup(email string) (User, bool) {
	u, ok := d.users[email]
	return u, ok
}

// Len returns the number of authorized users.
func (d *Directory) Len() int {
	return len(d.users)
}
