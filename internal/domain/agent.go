package domain

// Agent is a support staff member tickets can be assigned to.
type Agent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
}

// Clone returns a copy of the agent record.
func (a *Agent) Clone() Agent {
	return *a
}
