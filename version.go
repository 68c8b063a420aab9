package parley

// Version is the release version of the orchestrator.
var Version = "0.1.0"
