package domain

// A list of built-in config keys supported by the chat core (keys of individual frontends are declared next to them).

const (
	// ConfigKeyLanguage the language the model must answer in, as shown to the user ("English", "Español" etc.)
	ConfigKeyLanguage = "language"
	// ConfigKeySpeechEnabled whether model replies are read aloud by default
	ConfigKeySpeechEnabled = "speechEnabled"
	// ConfigKeyLogPath file path where to save the logs
	ConfigKeyLogPath = "logPath"
	// ConfigKeyLogLevel one of "debug", "info", "warn", "error"
	ConfigKeyLogLevel = "logLevel"
	// ConfigKeyRequestTimeout upper bound for a single remote call, in milliseconds. 0 means no timeout.
	ConfigKeyRequestTimeout = "requestTimeout"
	// ConfigKeyMaxImageSize the largest accepted image upload, in bytes
	ConfigKeyMaxImageSize = "maxImageSize"
)

const (
	DefaultLanguage     = "English"
	DefaultMaxImageSize = 20 << 20
)
