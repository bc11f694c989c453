package types

// SessionRecord is one entry of the machine-readable session summary
// consumed by CI matrix generation.
type SessionRecord struct {
	Name string `json:"name"`

	// AnsibleCore is the core version (or branch name) the session
	// runs against; empty for sessions that are version independent.
	AnsibleCore string `json:"ansible-core,omitempty"`

	// Python lists the interpreter version(s) the session uses,
	// space separated.
	Python string `json:"python,omitempty"`

	Extra map[string]string `json:"extra,omitempty"`
}

// SessionRegistry groups registered sessions by registry name
// (for example "sanity", "units", "integration").
type SessionRegistry map[string][]SessionRecord

// ConstraintViolation reports a collection dependency whose declared
// version constraint is not satisfied by the version found on disk.
type ConstraintViolation struct {
	Collection string `json:"collection"`
	Dependency string `json:"dependency"`
	Constraint string `json:"constraint"`
	Found      string `json:"found"`
}
