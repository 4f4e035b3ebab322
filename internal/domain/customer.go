package domain

// Customer is a person or company that files support tickets.
type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	AvatarURL string `json:"avatarUrl"`
}

// Clone returns a copy of the customer record.
func (c *Customer) Clone() Customer {
	return *c
}
