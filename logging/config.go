package logging

// Config defines the structure for the "logging" section of quill.yml.
type Config struct {
	// Level is the minimum log level to output (e.g., "debug", "info",
	// "warn", "error"). Can be overridden by the QUILL_LOG_LEVEL
	// environment variable.
	Level string `yaml:"level"`

	// ReportCaller, if true, includes the file, line, and function name in
	// the log output. Can be enabled with QUILL_LOG_CALLER=true.
	ReportCaller bool `yaml:"report_caller"`

	// File configures logging to a file.
	File FileSinkConfig `yaml:"file"`

	// Format configures the appearance of the log output.
	Format FormatConfig `yaml:"format"`
}

// FileSinkConfig configures the file logging sink.
type FileSinkConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path is the full path to the log file.
	Path string `yaml:"path"`
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset can be "default" (rich text), "simple" (minimal text), or
	// "json".
	Preset string `yaml:"preset"`
	// DisableTimestamp drops the timestamp from the text formats.
	DisableTimestamp bool `yaml:"disable_timestamp"`
	// DisableComponent drops the component name from the text formats.
	DisableComponent bool `yaml:"disable_component"`
	// StructuredToStderr controls when structured logs are sent to
	// stderr: "auto" (default), "always", or "never".
	StructuredToStderr string `yaml:"structured_to_stderr"`
}
