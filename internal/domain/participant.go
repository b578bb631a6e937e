package domain

// ParticipantID is the opaque identity a caller acts under. It is the
// key into every balance and listing mapping; no participant record
// exists beyond its map entries.
type ParticipantID string

func (id ParticipantID) IsZero() bool {
	return id == ""
}

// Role gates the configuration setters. Authorization is decided on the
// role carried by the caller, not on the raw identity value.
type Role string

const (
	RoleOwner       Role = "OWNER"
	RoleParticipant Role = "PARTICIPANT"
)

// Caller is the authenticated principal an operation runs as.
type Caller struct {
	ID   ParticipantID
	Role Role
}

func (c Caller) IsOwner() bool {
	return c.Role == RoleOwner
}
