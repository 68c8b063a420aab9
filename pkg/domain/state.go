package domain

// DecisionStatus is the phase of the per-node decision state machine.
type DecisionStatus string

const (
	// StatusUnclassified means no classification has been recorded yet.
	StatusUnclassified DecisionStatus = "unclassified"
	// StatusClassified means a label is assigned and slot extraction has run.
	StatusClassified DecisionStatus = "classified"
	// StatusAwaitingUser means a clarifying question was emitted and the next
	// inbound text is the user's answer to it.
	StatusAwaitingUser DecisionStatus = "awaiting_user"
	// StatusAwaitingService means a sub-query was forwarded and the next
	// inbound fragment is expected to carry that service's provenance tag.
	StatusAwaitingService DecisionStatus = "awaiting_service"
	// StatusDone is terminal for the current exchange.
	StatusDone DecisionStatus = "done"
)

// DecisionState is the transient per-exchange decision context. It is
// cleared when a turn finalizes or a forward round-trip completes, and
// persisted across a user's answer to a clarifying question.
type DecisionState struct {
	Status DecisionStatus `json:"status"`
	Label  string         `json:"label,omitempty"`
	Slots  []string       `json:"slots,omitempty"`
}

// Reset clears classification and slots and marks the exchange done.
func (d *DecisionState) Reset() {
	d.Status = StatusDone
	d.Label = ""
	d.Slots = nil
}

// HasSlot reports whether a slot has already been accumulated.
func (d *DecisionState) HasSlot(slot string) bool {
	for _, s := range d.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// AddSlots merges new slots into the accumulated set, preserving order and
// dropping duplicates.
func (d *DecisionState) AddSlots(slots []string) {
	for _, s := range slots {
		if !d.HasSlot(s) {
			d.Slots = append(d.Slots, s)
		}
	}
}

// State is the snapshot of one user's dialogue session.
type State struct {
	// UserID identifies the session owner.
	UserID string `json:"user_id"`

	// GraphName selects the workflow template the session walks.
	GraphName string `json:"graph_name"`

	// CurrentNodeID is the session's cursor into the graph.
	CurrentNodeID int `json:"current_node_id"`

	// TurnText is the conversation log, oldest first. It grows monotonically
	// within one exchange and is scoped by ExchangeStart once an exchange
	// finishes.
	TurnText []string `json:"turn_text"`

	// ExchangeStart is the index into TurnText where the current exchange
	// begins. Earlier fragments belong to finished exchanges.
	ExchangeStart int `json:"exchange_start"`

	// Decision is the transient decision machine context.
	Decision DecisionState `json:"decision"`
}

// NewState creates a fresh session positioned at the graph's entry node.
func NewState(userID, graphName string, startNode int) *State {
	return &State{
		UserID:        userID,
		GraphName:     graphName,
		CurrentNodeID: startNode,
		Decision:      DecisionState{Status: StatusUnclassified},
	}
}

// Append adds a fragment to the conversation log.
func (s *State) Append(fragment string) {
	s.TurnText = append(s.TurnText, fragment)
}

// Latest returns the most recent fragment, or "" for an empty log.
func (s *State) Latest() string {
	if len(s.TurnText) == 0 {
		return ""
	}
	return s.TurnText[len(s.TurnText)-1]
}

// FinishExchange scopes the log so the next exchange starts clean.
func (s *State) FinishExchange() {
	s.ExchangeStart = len(s.TurnText)
}
