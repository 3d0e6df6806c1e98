package anthropic

// Config contains Anthropic adapter configuration. The credential and
// model override are read from the environment; the model default is
// the hardcoded fallback when neither an explicit argument nor the
// CLAUDE_MODEL override is set.
type Config struct {
	APIKey     string `env:"ANTHROPIC_API_KEY"`
	BaseURL    string `env:"ANTHROPIC_BASE_URL"     envDefault:"https://api.anthropic.com"`
	Model      string `env:"CLAUDE_MODEL"           envDefault:"claude-opus-4-5-20251101"`
	Timeout    int    `env:"ANTHROPIC_TIMEOUT"      envDefault:"60"`
	MaxRetries int    `env:"ANTHROPIC_MAX_RETRIES"  envDefault:"3"`
}
