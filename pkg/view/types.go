package view

// Checkbox is one selectable feature.
type Checkbox struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// Group renders one category.
type Group struct {
	Name       string     `json:"name"`
	Checkboxes []Checkbox `json:"checkboxes"`
}

// Form is the feature-selection area.
type Form struct {
	Groups []Group `json:"groups"`
}

// CheckboxCount reports the number of checkable controls.
func (f Form) CheckboxCount() int {
	total := 0
	for _, group := range f.Groups {
		total += len(group.Checkboxes)
	}
	return total
}

// Checked returns the ids of checked boxes in display order.
func (f Form) Checked() []string {
	var ids []string
	for _, group := range f.Groups {
		for _, box := range group.Checkboxes {
			if box.Checked {
				ids = append(ids, box.ID)
			}
		}
	}
	return ids
}

// Row is one country of the results table, already formatted.
type Row struct {
	Country     string `json:"country"`
	Probability string `json:"probability"`
	Score       string `json:"score"`
}

// Table is the results table.
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Evidence is one entry of the evidence list.
type Evidence struct {
	FeatureID   string `json:"feature_id,omitempty"`
	Text        string `json:"text"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Results bundles the table and the evidence list of one analysis.
type Results struct {
	Table    Table      `json:"table"`
	Evidence []Evidence `json:"evidence"`
}

// Trigger describes the analyze control.
type Trigger struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// Page is the complete screen state handed to adapters.
type Page struct {
	Locale  string   `json:"locale"`
	State   string   `json:"state"`
	Form    Form     `json:"form"`
	Results *Results `json:"results,omitempty"`
	Error   string   `json:"error,omitempty"`
	Trigger Trigger  `json:"trigger"`
}

// Messages carries the localized strings the pure builders need.
type Messages struct {
	CountryHeader     string
	ProbabilityHeader string
	ScoreHeader       string
	// Evidence is a format taking the label and the formatted weight.
	Evidence   string
	NoEvidence string
}

// DefaultMessages returns the Portuguese strings the product ships with.
func DefaultMessages() Messages {
	return Messages{
		CountryHeader:     "País",
		ProbabilityHeader: "Probabilidade (%)",
		ScoreHeader:       "Score interno",
		Evidence:          "%s (peso %s)",
		NoEvidence:        "Nenhuma evidência específica encontrada para o país mais provável.",
	}
}
