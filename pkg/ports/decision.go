package ports

// Decision is the pluggable per-domain strategy bound to a decision node.
// Given accumulated conversation text it classifies, extracts slots, and
// resolves the accumulated slot set into either a forwarding sub-query or
// an answer. The orchestrator owns the surrounding state machine and
// depends only on this interface, so new domains plug in without touching
// the core.
type Decision interface {
	// Classify assigns a classification label to a text fragment.
	Classify(text string) string

	// ExtractSlots runs label-specific slot extraction over a fragment.
	// The returned slots are merged into the session's accumulated set.
	ExtractSlots(label, text string) []string

	// Resolve runs the label-specific rule table over the accumulated slot
	// set. Rules are evaluated in declaration order and the first rule whose
	// full word-set is a subset of the slots wins. It returns a forwarding
	// sub-query, an answer, or neither when no rule matches.
	Resolve(label string, slots []string) (forward string, answer string)

	// Collaborator names the service this decision forwards sub-queries to.
	Collaborator() string

	// ForcedLabel is the label assigned to the user's reply after a
	// clarifying question, instead of re-deriving one.
	ForcedLabel() string

	// DefaultAnswer is the fallback when no rule matches.
	DefaultAnswer() string
}
