package runtime

import (
	"regexp"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
)

// verdictKind is the routing outcome of one decision step.
type verdictKind int

const (
	// verdictAsk returns a clarifying question to the user and suspends.
	verdictAsk verdictKind = iota
	// verdictForward routes a sub-query to the decision's collaborator.
	verdictForward
	// verdictAnswer finishes the exchange with a final answer.
	verdictAnswer
)

type verdict struct {
	kind    verdictKind
	text    string // question or final answer
	forward string // sub-query for the collaborator (verdictForward)
}

var clauseSplit = regexp.MustCompile(`[?.]`)

// stepTurn advances the decision state machine for one inbound fragment.
//
// Fragments originating from a downstream service (fromService) skip
// classification and extraction: the fragment, tag stripped, is the
// authoritative answer body. User fragments are classified once per
// exchange and slot-extracted on every turn, accumulating until the
// exchange terminates or a forward round-trip completes.
func stepTurn(d ports.Decision, st *domain.DecisionState, fragment, tag string, fromService bool) verdict {
	var forward, answer string

	if fromService {
		answer = strings.TrimPrefix(fragment, tag)
	} else {
		if st.Label == "" {
			st.Label = d.Classify(fragment)
		}
		st.AddSlots(d.ExtractSlots(st.Label, fragment))
		st.Status = domain.StatusClassified

		forward, answer = d.Resolve(st.Label, st.Slots)
		if forward == "" && answer == "" {
			answer = d.DefaultAnswer()
		}
	}

	switch {
	case strings.HasSuffix(answer, "?"):
		// A clarifying question. The user's reply will be a command, so
		// force the label and seed slots from the clause leading up to the
		// question mark.
		st.Label = d.ForcedLabel()
		st.Slots = nil
		if clause, ok := penultimateClause(answer); ok {
			st.AddSlots(d.ExtractSlots(st.Label, clause))
		}
		st.Status = domain.StatusAwaitingUser
		return verdict{kind: verdictAsk, text: answer}

	case forward != "":
		st.Label = ""
		st.Slots = nil
		st.Status = domain.StatusAwaitingService
		return verdict{kind: verdictForward, forward: forward}

	default:
		st.Reset()
		return verdict{kind: verdictAnswer, text: answer}
	}
}

// penultimateClause returns the second-to-last sentence of a text ending in
// a question mark: the clause the question is actually about.
func penultimateClause(text string) (string, bool) {
	parts := clauseSplit.Split(text, -1)
	if len(parts) < 2 {
		return "", false
	}
	return parts[len(parts)-2], true
}
