package constants

// JobStatus is the canonical status for rows in parse_job.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued  JobStatus = "QUEUED"  // optional: queued for processing
	JobStatusRunning JobStatus = "RUNNING" // in progress
	JobStatusParsed  JobStatus = "PARSED"  // parsed document committed
	JobStatusFailed  JobStatus = "FAILED"  // terminal failure
)

// DecisionStatus values produced for the decision section.
const (
	DecisionSatisfied = "задовольнити"
	DecisionRejected  = "відмовити"
)

// NoOccurrence marks a field whose keyword never appears in its section, so
// the question was not asked.
const NoOccurrence = "No occurrence in text"

// Sex is a grammatical gender resolved for a case party.
type Sex string

const (
	SexMasculine Sex = "Masc"
	SexFeminine  Sex = "Fem"
	SexNeuter    Sex = "Neut"
)
