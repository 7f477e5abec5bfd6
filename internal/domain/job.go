package domain

// JobPhase represents where a job sits in its lifecycle. It is tracked
// purely for diagnostics and ownership checks; event delivery is keyed on
// jobId alone and never gated on phase.
type JobPhase string

const (
	JobPhaseCreated   JobPhase = "CREATED"
	JobPhaseExecuting JobPhase = "EXECUTING"
	JobPhaseTerminal  JobPhase = "TERMINAL"
)

// JobRecord is the ownership entry kept while a job is live. The job id
// itself is opaque, minted by the judge service.
type JobRecord struct {
	JobID      string   `json:"jobId"`
	OwnerID    int64    `json:"ownerId"`
	QuestionID int64    `json:"questionId"`
	Phase      JobPhase `json:"phase"`
}
