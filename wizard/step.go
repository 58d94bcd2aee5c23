package wizard

import (
	"styleaiapi/models"
)

type Step int

const (
	StepGender Step = iota + 1
	StepBodyType
	StepStyle
	StepResult
)

func (s Step) String() string {
	switch s {
	case StepGender:
		return "gender"
	case StepBodyType:
		return "body_type"
	case StepStyle:
		return "style"
	case StepResult:
		return "result"
	default:
		return "unknown"
	}
}

// Field is a preference answered by one of the selection steps.
type Field string

const (
	FieldGender   Field = "gender"
	FieldBodyType Field = "body_type"
	FieldStyle    Field = "style"
)

// RequiredField returns the preference a step must have set before the wizard may leave it.
// The result step has none.
func RequiredField(step Step) (Field, bool) {
	switch step {
	case StepGender:
		return FieldGender, true
	case StepBodyType:
		return FieldBodyType, true
	case StepStyle:
		return FieldStyle, true
	default:
		return "", false
	}
}

func isSet(prefs models.Preferences, field Field) bool {
	switch field {
	case FieldGender:
		return prefs.Gender != ""
	case FieldBodyType:
		return prefs.BodyType != ""
	case FieldStyle:
		return prefs.Style != ""
	default:
		return false
	}
}

// State is a snapshot of one wizard session.
type State struct {
	Step                    Step                         `json:"step"`
	Preferences             models.Preferences           `json:"preferences"`
	IsLoadingRecommendation bool                         `json:"is_loading_recommendation"`
	IsGeneratingImage       bool                         `json:"is_generating_image"`
	IsEditingImage          bool                         `json:"is_editing_image"`
	Recommendation          *models.OutfitRecommendation `json:"recommendation"`
	CurrentImage            *models.GeneratedImage       `json:"current_image"`
	Error                   string                       `json:"error,omitempty"`
}

func Initial() State {
	return State{Step: StepGender}
}

// Busy reports whether a provider call is in flight.
func (s State) Busy() bool {
	return s.IsLoadingRecommendation || s.IsGeneratingImage || s.IsEditingImage
}

func (s State) Generating() bool {
	return s.IsLoadingRecommendation || s.IsGeneratingImage
}

func (s State) CanAdvance() bool {
	field, ok := RequiredField(s.Step)
	return ok && isSet(s.Preferences, field)
}
