package model

type ProfileType string

const (
	ProfileTypeClient     ProfileType = "client"
	ProfileTypeContractor ProfileType = "contractor"
)

type Profile struct {
	ID         int64       `json:"id"`
	Type       ProfileType `json:"type"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Profession string      `json:"profession,omitempty"`
	Balance    float64     `json:"balance"`
}

// Principal is the caller identity resolved by the auth middleware before any
// engine runs. Role checks happen inside the services, not in interceptors.
type Principal struct {
	ID   int64
	Type ProfileType
}

func (p Principal) IsClient() bool {
	return p.Type == ProfileTypeClient
}

func (p Principal) IsContractor() bool {
	return p.Type == ProfileTypeContractor
}
