package models

// Group represents a named set of people who share expenses.
// Transactions and settlements reference a group by ID.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	// Names are unique.
	Name string

	// Members is the list of people in this group.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether name is a member of the group.
func (g *Group) HasMember(name string) bool {
	for _, m := range g.Members {
		if m == name {
			return true
		}
	}
	return false
}
