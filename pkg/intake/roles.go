package intake

// Reserved identifiers for the three canonical project attributes. These are
// fixed constants owned by the engine; template authors never supply them.
// Classification happens by identifier equality against these constants only,
// never by position, label text, or field type.
const (
	IDTitle       = "mandatory-title"
	IDDescription = "mandatory-desc"
	IDBudget      = "mandatory-budget"
)

// Role classifies a field identifier as one of the canonical attributes or as
// supplementary template content.
type Role int

const (
	RoleSupplementary Role = iota
	RoleTitle
	RoleDescription
	RoleBudget
)

// IdentifierRole maps a binding identifier to its role. Any identifier that is
// not one of the reserved constants is supplementary.
func IdentifierRole(id string) Role {
	switch id {
	case IDTitle:
		return RoleTitle
	case IDDescription:
		return RoleDescription
	case IDBudget:
		return RoleBudget
	default:
		return RoleSupplementary
	}
}

// Reserved reports whether the role denotes a canonical attribute.
func (r Role) Reserved() bool {
	return r != RoleSupplementary
}

func (r Role) String() string {
	switch r {
	case RoleTitle:
		return "title"
	case RoleDescription:
		return "description"
	case RoleBudget:
		return "budget"
	default:
		return "supplementary"
	}
}
