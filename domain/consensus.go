package domain

type ConsensusStatus string

const (
	ConsensusBuilding     ConsensusStatus = "building"
	ConsensusAchieved     ConsensusStatus = "achieved"
	ConsensusDisagreement ConsensusStatus = "disagreement"
)

// ConsensusReport is the output of one estimation pass over a trailing
// window of session history. AgreementLevel always lies in [0,1].
type ConsensusReport struct {
	AgreementLevel         float64
	Status                 ConsensusStatus
	ConvergencePoints      []string
	RemainingDisagreements []string
	NextSteps              string
}
