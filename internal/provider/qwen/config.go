package qwen

// Config contains Qwen (DashScope) adapter configuration. DashScope
// exposes an OpenAI-compatible surface, so the adapter drives it
// through the OpenAI SDK with a swapped base URL.
type Config struct {
	APIKey        string `env:"DASHSCOPE_API_KEY"`
	BaseURL       string `env:"DASHSCOPE_BASE_URL"  envDefault:"https://dashscope-intl.aliyuncs.com/compatible-mode/v1"`
	Model         string `env:"QWEN_MODEL"          envDefault:"qwen3-max-2026-01-23"`
	Timeout       int    `env:"QWEN_TIMEOUT"        envDefault:"60"`
	StreamTimeout int    `env:"QWEN_STREAM_TIMEOUT" envDefault:"120"`
	MaxRetries    int    `env:"QWEN_MAX_RETRIES"    envDefault:"3"`
}
