package domain

// Collaborator is a staff member acting on the shared workspace.
// Audit fields record the collaborator's name.
type Collaborator struct {
	ID       string `json:"id" toml:"id" binding:"required"`
	Name     string `json:"name" toml:"name" binding:"required"`
	Initials string `json:"initials" toml:"initials"`
}
