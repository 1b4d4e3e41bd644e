package config

const (
	defaultPolicyFile  = "~/.config/btlinkd/policy.json"
	defaultLogDir      = "~/.local/share/btlinkd/logs"
	defaultJournalPath = "~/.local/share/btlinkd/journal.db"
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"

	defaultTickSeconds      = 1
	defaultFailureThreshold = 3
	defaultBackoffSeconds   = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PolicyFile:  defaultPolicyFile,
			LogDir:      defaultLogDir,
			JournalPath: defaultJournalPath,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Monitor: Monitor{
			TickSeconds:      defaultTickSeconds,
			FailureThreshold: defaultFailureThreshold,
			BackoffSeconds:   defaultBackoffSeconds,
		},
	}
}
