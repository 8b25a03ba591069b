package parser

// Kind is the declaration keyword of a unit.
type Kind string

const (
	KindContract  Kind = "contract"
	KindInterface Kind = "interface"
	KindLibrary   Kind = "library"
)

// ParsedUnit is the structured result of parsing one source unit.
type ParsedUnit struct {
	Name        string
	Kind        Kind
	Filename    string
	Description string
	Chapter     string
	Operations  []Operation
	Events      []Event

	// Registry metadata, empty outside registry mode.
	RegistryKey string
	DisplayName string
	Walkthrough string
	Tags        []string
}

// Operation documents one function of a unit.
type Operation struct {
	Name        string
	Description string
	Parameters  []Parameter
	Returns     string
	Signature   string
}

// Parameter documents one @param tag. Type is taken from the signature when
// a parameter of that name exists there.
type Parameter struct {
	Name        string
	Type        string
	Description string
}

// Event is an event declared in a unit's body.
type Event struct {
	Name        string
	Description string
}

// IsRegistryBacked reports whether the unit came from the example catalog.
func (u *ParsedUnit) IsRegistryBacked() bool { return u.RegistryKey != "" }
