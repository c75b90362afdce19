package config

import "time"

// CLIConfig is the configuration for avtoken-cli.
type CLIConfig struct {
	DefaultOutput string        `yaml:"default_output"`
	Timeout       time.Duration `yaml:"timeout"`

	Profiles       map[string]Profile `yaml:"profiles"`
	CurrentProfile string             `yaml:"current_profile"`
}

// Profile is a saved server connection. The file is written 0600 since it
// may hold the admin password.
type Profile struct {
	Server   string `yaml:"server"`
	Password string `yaml:"password,omitempty"`
}

// DefaultServer is used when neither a flag nor a profile names one.
const DefaultServer = "http://localhost:3000"

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultOutput: "table",
		Timeout:       30 * time.Second,
		Profiles:      make(map[string]Profile),
	}
}

// Current returns the active profile, or one pointing at DefaultServer.
func (c *CLIConfig) Current() Profile {
	if p, ok := c.Profiles[c.CurrentProfile]; ok {
		return p
	}
	return Profile{Server: DefaultServer}
}
