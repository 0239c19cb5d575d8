package entity

// RegistrationStep is the field a registration conversation is waiting for.
type RegistrationStep string

const (
	StepCategory         RegistrationStep = "category"
	StepGender           RegistrationStep = "gender"
	StepName             RegistrationStep = "name"
	StepBirthDate        RegistrationStep = "birth_date"
	StepGuardianName     RegistrationStep = "guardian_name"
	StepMotherNIK        RegistrationStep = "mother_nik"
	StepChildNIK         RegistrationStep = "child_nik"
	StepFamilyCardNumber RegistrationStep = "family_card_number"
	StepAge              RegistrationStep = "age"
	StepNIK              RegistrationStep = "nik"
)

// RegistrationSession is the in-progress state of one user's registration.
// BirthDate is kept as YYYY-MM-DD once parsed.
type RegistrationSession struct {
	Step             RegistrationStep `json:"step"`
	Category         Category         `json:"category,omitempty"`
	Gender           Gender           `json:"gender,omitempty"`
	Name             string           `json:"name,omitempty"`
	Age              string           `json:"age,omitempty"`
	BirthDate        string           `json:"birth_date,omitempty"`
	GuardianName     string           `json:"guardian_name,omitempty"`
	MotherNIK        string           `json:"mother_nik,omitempty"`
	ChildNIK         string           `json:"child_nik,omitempty"`
	FamilyCardNumber string           `json:"family_card_number,omitempty"`
	NIK              string           `json:"nik,omitempty"`
}

// NewRegistrationSession starts a conversation at the category step.
func NewRegistrationSession() *RegistrationSession {
	return &RegistrationSession{Step: StepCategory}
}

// StepNumber returns the 1-based position of the current step and the total
// number of steps for the chosen category. Total is 0 before a category is chosen.
func (s *RegistrationSession) StepNumber() (int, int) {
	infant := []RegistrationStep{StepCategory, StepGender, StepName, StepBirthDate, StepGuardianName, StepMotherNIK, StepChildNIK, StepFamilyCardNumber}
	adult := []RegistrationStep{StepCategory, StepGender, StepName, StepAge, StepNIK}

	flow := adult
	if s.Category.IsInfant() {
		flow = infant
	}
	total := len(flow)
	if s.Category == "" {
		total = 0
	}
	for i, step := range flow {
		if step == s.Step {
			return i + 1, total
		}
	}
	return 1, total
}
