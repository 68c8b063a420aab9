// Package lanekeep implements the decision strategy for the lane keeping
// domain: a regex-table classifier, label-specific slot extraction, and
// ordered rule tables resolving accumulated slots into lane-keeping
// commands or informational answers.
package lanekeep

// CollaboratorService is the logical name of the lane keeping worker the
// decision forwards commands to.
const CollaboratorService = "lk"

// Decision implements ports.Decision for lane keeping queries.
// It is stateless; all per-exchange context lives in the session.
type Decision struct{}

// New creates the lane keeping decision strategy.
func New() *Decision {
	return &Decision{}
}

// Classify assigns "info" or "cmd" to a fragment, first match wins.
func (d *Decision) Classify(text string) string {
	for _, rule := range classifier {
		if rule.pattern.MatchString(text) {
			return rule.label
		}
	}
	return ""
}

// ExtractSlots collects the label's slots present in the fragment, in
// table order.
func (d *Decision) ExtractSlots(label, text string) []string {
	var table []slotPattern
	switch label {
	case LabelInfo:
		table = infoSlots
	case LabelCommand:
		table = cmdSlots
	default:
		return nil
	}

	var slots []string
	for _, sp := range table {
		if sp.pattern.MatchString(text) {
			slots = append(slots, sp.name)
		}
	}
	return slots
}

// Resolve turns the accumulated slot set into a forwarding sub-query or a
// direct answer. Both empty means no rule matched.
func (d *Decision) Resolve(label string, slots []string) (string, string) {
	switch label {
	case LabelInfo:
		return "", d.resolveInfo(slots)
	case LabelCommand:
		return d.resolveCommand(slots)
	}
	return "", ""
}

func (d *Decision) resolveInfo(slots []string) string {
	have := slotSet(slots)
	for _, entry := range infoTable {
		if have[entry.slot] {
			return entry.answer
		}
	}
	return ""
}

func (d *Decision) resolveCommand(slots []string) (string, string) {
	have := slotSet(slots)
	for _, rule := range commandTable {
		if containsAll(have, rule.requires) {
			if rule.outcome == NoChange {
				return "", NoChange
			}
			return rule.outcome, ""
		}
	}
	return "", ""
}

// Collaborator names the worker service commands are forwarded to.
func (d *Decision) Collaborator() string {
	return CollaboratorService
}

// ForcedLabel is the label assumed for the user's reply to a clarifying
// question: a question always asks for a command.
func (d *Decision) ForcedLabel() string {
	return LabelCommand
}

// DefaultAnswer is the fallback when no rule matches.
func (d *Decision) DefaultAnswer() string {
	return DefaultAnswer
}

func slotSet(slots []string) map[string]bool {
	set := make(map[string]bool, len(slots))
	for _, s := range slots {
		set[s] = true
	}
	return set
}

func containsAll(have map[string]bool, want []string) bool {
	for _, w := range want {
		if !have[w] {
			return false
		}
	}
	return true
}
