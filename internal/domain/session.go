package domain

// SessionUser is the projection of a User held in the session store and
// attached to authenticated requests. It never carries the credential hash.
type SessionUser struct {
	ID        string  `json:"id"`
	SessionID string  `json:"sid"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Photo     *string `json:"photo,omitempty"`
	Role      Role    `json:"role"`
}

// NewSessionUser projects u into a session record bound to sessionID.
func NewSessionUser(u *User, sessionID string) SessionUser {
	return SessionUser{
		ID:        u.ID,
		SessionID: sessionID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Photo:     u.Photo,
		Role:      u.Role,
	}
}
