package domain

// ConcernDefinition captures a stakeholder concern.
type ConcernDefinition struct {
	Definition
	Stakeholders       []string `json:"stakeholders"`
	ConcernText        string   `json:"concernText,omitempty"`
	FramedRequirements []string `json:"framedRequirements"`
}

func (d *ConcernDefinition) Kind() Kind { return KindConcernDefinition }

// UseCaseDefinition describes how actors use a subject to reach an objective.
type UseCaseDefinition struct {
	Definition
	SubjectID        string   `json:"subjectId,omitempty"`
	Actors           []string `json:"actors"`
	IncludedUseCases []string `json:"includedUseCases"`
	Objective        string   `json:"objective,omitempty"`
}

func (d *UseCaseDefinition) Kind() Kind { return KindUseCaseDefinition }

// VerificationMethod is the way a verification case checks its requirements.
type VerificationMethod string

const (
	VerificationInspection    VerificationMethod = "inspection"
	VerificationAnalysis      VerificationMethod = "analysis"
	VerificationDemonstration VerificationMethod = "demonstration"
	VerificationTest          VerificationMethod = "test"
)

// VerificationCaseDefinition verifies requirements against a subject.
type VerificationCaseDefinition struct {
	Definition
	SubjectID            string             `json:"subjectId,omitempty"`
	VerifiedRequirements []string           `json:"verifiedRequirements"`
	Objective            string             `json:"objective,omitempty"`
	Method               VerificationMethod `json:"method,omitempty"`
}

func (d *VerificationCaseDefinition) Kind() Kind { return KindVerificationCaseDefinition }
