package rpc

// IncorrectQueryAnswer is the literal answer returned for empty or
// malformed query content. The contract is single-string-return, so this
// travels in-band rather than as a transport error.
const IncorrectQueryAnswer = "error: incorrect query"

// QueryInput is one content item of a query: an ordered sequence of text
// fragments plus optional routing tags.
type QueryInput struct {
	Type string   `json:"type,omitempty"`
	Data []string `json:"data"`
	Tags []string `json:"tags,omitempty"`
}

// QuerySpec carries the conversation log so far, oldest fragment first.
type QuerySpec struct {
	Content []QueryInput `json:"content"`
}

// Text flattens the query's first content item into the fragment list.
func (q QuerySpec) Text() []string {
	if len(q.Content) == 0 {
		return nil
	}
	return q.Content[0].Data
}

// NewTextQuery wraps a conversation log into a QuerySpec.
func NewTextQuery(turns []string) QuerySpec {
	return QuerySpec{
		Content: []QueryInput{{Type: "text", Data: turns}},
	}
}

// CreateRequest provisions caller-specific resources.
type CreateRequest struct {
	UserID string   `json:"user_id"`
	Spec   []string `json:"spec,omitempty"`
}

// LearnRequest ingests out-of-band knowledge.
type LearnRequest struct {
	UserID    string   `json:"user_id"`
	Knowledge []string `json:"knowledge,omitempty"`
}

// InferRequest asks the service to resolve the conversation log into the
// next fragment.
type InferRequest struct {
	UserID string    `json:"user_id"`
	Query  QuerySpec `json:"query"`
}

// InferResponse carries the single newest fragment to append to the log.
type InferResponse struct {
	Answer string `json:"answer"`
}
