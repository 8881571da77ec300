package domain

// CredentialKey is the fixed key the bearer token is persisted under.
const CredentialKey = "smartlib_token"

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

type Identity struct {
	Username string
	Email    string
}
