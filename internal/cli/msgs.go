package cli

// Command descriptions
const (
	MsgRootShort = "Route command-line output by intent"
	MsgRootLong  = `clio sends every message through one of three intents: info for
human-facing notes, out for primary output and err for errors. Where each
intent ends up depends on whether the session is interactive and on the
output configuration.`

	MsgEchoShort    = "Emit text as a message"
	MsgCatShort     = "Emit file contents as raw bytes"
	MsgAskShort     = "Ask a question on an interactive terminal"
	MsgConfigShort  = "Print the effective configuration"
	MsgVersionShort = "Print version information"
)

// Flag descriptions
const (
	MsgFlagVerbose        = "Increase verbosity (-v, -vv, -vvv)"
	MsgFlagInteractive    = "Force interactive output"
	MsgFlagNonInteractive = "Force non-interactive output"
	MsgFlagDetect         = "Detect interactivity from the terminal (default)"
	MsgFlagThreaded       = "Deliver output from a background worker"
	MsgFlagConfig         = "Config file (.toml or .yaml)"

	MsgFlagEchoInfo     = "Emit as info"
	MsgFlagEchoErr      = "Emit as err"
	MsgFlagEchoNoNL     = "Do not print the trailing newline"
	MsgFlagEchoLevel    = "Verbosity required to show the message"
	MsgFlagEchoMarkdown = "Render the text as markdown"

	MsgFlagAskDefault = "Answer used when none is given"
	MsgFlagAskYesNo   = "Ask a yes/no question"
	MsgFlagAskAnswer  = "Answer without prompting"

	MsgFlagConfigTemplate = "Print a commented template instead"
)

// Output formats
const (
	MsgVersionFormat = "clio version %s"
	MsgCommitFormat  = "Commit: %s"
	MsgBuiltFormat   = "Built:  %s"
)

// Error messages
const (
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrStyleSheet = "failed to load style sheet: %w"
	MsgErrReadFile   = "failed to read %s: %w"
	MsgErrMarkdown   = "failed to set up markdown rendering: %w"
)
