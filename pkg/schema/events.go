package schema

// ActivationMode describes how an activation treats already-active tools.
type ActivationMode string

const (
	// ModeReplace removes active tools not produced by the requested workflows.
	ModeReplace ActivationMode = "replace"
	// ModeAdditive only adds tools.
	ModeAdditive ActivationMode = "additive"
)

// ModeFor maps the additive flag to an ActivationMode.
func ModeFor(additive bool) ActivationMode {
	if additive {
		return ModeAdditive
	}
	return ModeReplace
}

// ActivationSource identifies what triggered an activation.
type ActivationSource string

const (
	SourceDirect     ActivationSource = "direct"
	SourceClassifier ActivationSource = "classifier"
	SourceStartup    ActivationSource = "startup"
)
