package config

// Config holds the configuration of the application
// Use cmd.NewAppState to wire it into running state
type Config struct {
	Model     ModelConfig     `mapstructure:"model"`
	Inference InferenceConfig `mapstructure:"inference"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Auth      AuthConfig      `mapstructure:"auth"`
}

// ModelConfig describes where the model assets live and the budget the
// tokenizer must respect before dispatching to the inference backend.
type ModelConfig struct {
	// Dir is the local directory holding vocab.txt and config.json.
	Dir string `mapstructure:"dir"`
	// AssetsURL is the base URL model assets are fetched from when missing.
	AssetsURL string `mapstructure:"assets_url"`
	// MaxTokens is the inference backend's sequence length budget.
	MaxTokens int `mapstructure:"max_tokens"`
	// Lowercase toggles lowercasing during WordPiece matching.
	Lowercase bool `mapstructure:"lowercase"`
}

type InferenceConfig struct {
	ServerURL      string `mapstructure:"server_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	// Secret is loaded from ENV not config file.
	Secret   string `mapstructure:"secret"`
	Required bool   `mapstructure:"required"`
}
