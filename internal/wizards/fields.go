package wizards

// FieldType selects the validation rule applied to a field's values
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldSSN    FieldType = "ssn"
)

// Mode alters which fields are required and whether new records may be
// created during feed processing
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

// FieldDef describes one importable attribute. Definitions are static per
// wizard type, not persisted per instance.
type FieldDef struct {
	ID                string
	Name              string
	Type              FieldType
	Required          bool
	RequiredForCreate bool
	RequiredForUpdate bool
	Format            string
	Pattern           string
	MaxLength         int
}

// RequiredIn reports whether the field must be present for the given mode
func (f FieldDef) RequiredIn(mode Mode) bool {
	if f.Required {
		return true
	}
	switch mode {
	case ModeCreate:
		return f.RequiredForCreate
	case ModeUpdate:
		return f.RequiredForUpdate
	}
	return false
}

// Canonical field ids used by the worker feed
const (
	FieldIDSSN        = "ssn"
	FieldIDFirstName  = "firstName"
	FieldIDMiddleName = "middleName"
	FieldIDLastName   = "lastName"
	FieldIDSuffix     = "suffix"
	FieldIDBirthDate  = "birthDate"
	FieldIDHours      = "hours"
	FieldIDPhone      = "phone"
	FieldIDEmail      = "email"
)

// WorkerFeedFields is the field set for the worker create/update feed
var WorkerFeedFields = []FieldDef{
	{
		ID:       FieldIDSSN,
		Name:     "SSN",
		Type:     FieldSSN,
		Required: true,
		Format:   "ssn",
	},
	{
		ID:                FieldIDFirstName,
		Name:              "First Name",
		Type:              FieldText,
		RequiredForCreate: true,
		MaxLength:         50,
	},
	{
		ID:        FieldIDMiddleName,
		Name:      "Middle Name",
		Type:      FieldText,
		MaxLength: 50,
	},
	{
		ID:                FieldIDLastName,
		Name:              "Last Name",
		Type:              FieldText,
		RequiredForCreate: true,
		MaxLength:         50,
	},
	{
		ID:        FieldIDSuffix,
		Name:      "Suffix",
		Type:      FieldText,
		MaxLength: 10,
	},
	{
		ID:   FieldIDBirthDate,
		Name: "Birth Date",
		Type: FieldDate,
	},
	{
		ID:   FieldIDHours,
		Name: "Hours",
		Type: FieldNumber,
	},
	{
		ID:        FieldIDPhone,
		Name:      "Phone",
		Type:      FieldText,
		Pattern:   `^[0-9()+\-. ]{7,20}$`,
		MaxLength: 20,
	},
	{
		ID:        FieldIDEmail,
		Name:      "Email",
		Type:      FieldText,
		Pattern:   `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
		MaxLength: 100,
	},
}
