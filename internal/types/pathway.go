package types

// StepType classifies a pathway milestone.
type StepType string

// Step types accepted in a generated pathway.
const (
	StepDegree     StepType = "degree"
	StepTransfer   StepType = "transfer"
	StepInternship StepType = "internship"
	StepExam       StepType = "exam"
)

// StepTypes lists every valid step type in display order.
func StepTypes() []StepType {
	return []StepType{StepDegree, StepTransfer, StepInternship, StepExam}
}

// IsValid reports whether t is one of the fixed step types.
func (t StepType) IsValid() bool {
	switch t {
	case StepDegree, StepTransfer, StepInternship, StepExam:
		return true
	default:
		return false
	}
}

// PathwayStep is one milestone toward a career. Type, Level, Name and Description
// are required; Link is filled in for steps that name a catalog program.
type PathwayStep struct {
	Type        StepType `json:"type" validate:"required,oneof=degree transfer internship exam"`
	Level       string   `json:"level" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Link        string   `json:"link,omitempty"`
}

// Pathway is an ordered sequence of steps. Order is whatever the model returned.
type Pathway struct {
	Title string        `json:"title"`
	Steps []PathwayStep `json:"steps"`
}
