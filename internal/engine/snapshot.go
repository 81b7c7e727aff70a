package engine

// Snapshot is the observable state of the engine at one instant.
type Snapshot struct {
	SessionID   string `json:"session_id,omitempty"`
	Phase       Phase  `json:"phase"`
	SequenceLen int    `json:"sequence_len"`
	Progress    int    `json:"progress"`
	Score       int    `json:"score"`
	HighScore   int    `json:"high_score"`
	Lit         Signal `json:"lit"`
	Status      string `json:"status"`
}

// AcceptsInput reports whether a Submit would be verified right now.
func (s Snapshot) AcceptsInput() bool {
	return s.Phase == AwaitingInput
}
