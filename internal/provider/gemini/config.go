package gemini

// Config contains Gemini adapter configuration.
type Config struct {
	APIKey     string `env:"GEMINI_API_KEY"`
	BaseURL    string `env:"GEMINI_BASE_URL"    envDefault:"https://generativelanguage.googleapis.com"`
	Model      string `env:"GEMINI_MODEL"       envDefault:"gemini-2.5-pro-preview"`
	Timeout    int    `env:"GEMINI_TIMEOUT"     envDefault:"60"`
	MaxRetries int    `env:"GEMINI_MAX_RETRIES" envDefault:"3"`
}
