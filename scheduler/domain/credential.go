package domain

// Credential is the single stored identifier/password pair used to
// authenticate against the publisher. There is at most one; a new login
// replaces it wholesale.
type Credential struct {
	ID         int
	Identifier string
	Password   string
}

// CredentialID is the fixed id of the singleton credential slot.
const CredentialID = 1
