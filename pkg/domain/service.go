package domain

// Modality identifies the kind of input a workflow consumes.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
)

// Service describes one collaborator in the pipeline.
// Entries are immutable after the registry is loaded at startup.
type Service struct {
	// Name is the logical service name referenced by workflow nodes.
	Name string `json:"name" yaml:"name"`

	// Tag is the short provenance marker (e.g. "LK") prefixed to every
	// reply the service produces, so the orchestrator can tell service
	// output from end-user input.
	Tag string `json:"tag" yaml:"tag"`

	// Endpoint is the reachable network address. Empty for services that
	// run in-process (decision nodes).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	Modality Modality `json:"modality,omitempty" yaml:"modality,omitempty"`
}
