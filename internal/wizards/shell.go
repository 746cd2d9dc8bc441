package wizards

import "unionhall/backoffice/internal/constants"

// Step is one named stage of a wizard flow
type Step struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Definition is the descriptive shell of a wizard type: its ordered steps
// and status vocabulary. Consumed by the API layer for navigation; it has
// no behavior of its own.
type Definition struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Steps    []Step   `json:"steps"`
	Statuses []string `json:"statuses"`
}

var statuses = []string{
	constants.WizardStatusDraft,
	constants.WizardStatusInProgress,
	constants.WizardStatusReady,
	constants.WizardStatusCompleted,
}

var registry = map[string]Definition{
	constants.WizardTypeWorkerFeed: {
		Type: constants.WizardTypeWorkerFeed,
		Name: "Worker Feed",
		Steps: []Step{
			{ID: constants.StepUpload, Name: "Upload File"},
			{ID: constants.StepMapColumns, Name: "Map Columns"},
			{ID: constants.StepValidate, Name: "Validate"},
			{ID: constants.StepProcess, Name: "Process"},
			{ID: constants.StepResults, Name: "Results"},
		},
		Statuses: statuses,
	},
	constants.WizardTypeWorkerReport: {
		Type: constants.WizardTypeWorkerReport,
		Name: "Worker Report",
		Steps: []Step{
			{ID: constants.StepConfigure, Name: "Configure"},
			{ID: constants.StepGenerate, Name: "Generate"},
			{ID: constants.StepResults, Name: "Results"},
		},
		Statuses: statuses,
	},
}

// Lookup returns the definition for a wizard type
func Lookup(wizardType string) (Definition, bool) {
	def, ok := registry[wizardType]
	return def, ok
}

// Definitions returns every registered wizard definition
func Definitions() []Definition {
	defs := make([]Definition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	return defs
}
