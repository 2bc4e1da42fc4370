package contract

// Vector is an embedding returned by an Embedder. Treat it as immutable.
type Vector []float64

type AgentRole string

const (
	AgentRolePlanner    AgentRole = "planner"
	AgentRoleSpecialist AgentRole = "specialist"
	AgentRoleEvaluator  AgentRole = "evaluator"
)

// AgentDescriptor is one routing target. Description is what gets embedded
// and compared against incoming requests.
type AgentDescriptor struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Handler     Specialist `json:"-"`
}

type Verdict string

const (
	VerdictAccepted Verdict = "accepted"
	VerdictFailed   Verdict = "failed"
)

type EvaluationResult struct {
	FinalResponse  string    `json:"final_response"`
	Evaluation     string    `json:"evaluation"`
	Verdict        Verdict   `json:"verdict"`
	IterationCount int       `json:"iteration_count"`
	Attempts       []Attempt `json:"attempts,omitempty"`
}

func (r EvaluationResult) Accepted() bool {
	return r.Verdict == VerdictAccepted
}

// Attempt is one pass through the evaluate-refine loop. Instructions is
// empty for the accepted attempt.
type Attempt struct {
	Request      string `json:"request"`
	Response     string `json:"response"`
	Judgment     string `json:"judgment"`
	Instructions string `json:"instructions,omitempty"`
}
