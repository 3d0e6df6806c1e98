package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/davidbz/askllm/internal/domain"
	"github.com/davidbz/askllm/internal/observability"
	"github.com/davidbz/askllm/internal/provider/qwen"
)

// errNoResponse maps an empty answer onto a non-zero exit code.
var errNoResponse = errors.New("no response")

// App wires the cobra command tree to the provider registry.
type App struct {
	registry domain.ProviderRegistry
	qwen     *qwen.Provider
	logger   *zap.Logger
	root     *cobra.Command
}

// NewApp builds the CLI (DI constructor).
func NewApp(reg domain.ProviderRegistry, qwenProvider *qwen.Provider, logger *zap.Logger) *App {
	app := &App{
		registry: reg,
		qwen:     qwenProvider,
		logger:   logger,
	}

	root := &cobra.Command{
		Use:           "askllm",
		Short:         "Uniform CLI wrappers around LLM vendor APIs",
		Long:          "askllm sends a prompt to Claude, Gemini, OpenAI or Qwen through a uniform flag surface and prints the answer.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAskCommand(app, "claude", "Claude"),
		newAskCommand(app, "gemini", "Gemini"),
		newAskCommand(app, "openai", "OpenAI"),
		newQwenCommand(app),
		newProvidersCommand(app),
	)

	app.root = root
	return app
}

// Execute runs the command tree. Any error has already been reported
// to the user; the caller only converts it to a non-zero exit.
func (a *App) Execute() error {
	return a.root.Execute()
}

// askOptions is the uniform flag set shared by all vendor commands.
type askOptions struct {
	system    string
	model     string
	temp      float64
	maxTokens int
	jsonMode  bool
}

func addAskFlags(cmd *cobra.Command, opts *askOptions) {
	cmd.Flags().StringVar(&opts.system, "system", "", "System instruction")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model to use")
	cmd.Flags().Float64Var(&opts.temp, "temp", 0.7, "Temperature")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "Max output tokens (0 = vendor default)")
	cmd.Flags().BoolVar(&opts.jsonMode, "json", false, "Request JSON response")
}

func newAskCommand(app *App, name, display string) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   name + " <prompt>",
		Short: "Ask " + display + " a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runAsk(cmd.Context(), name, display, args[0], opts)
		},
	}
	addAskFlags(cmd, opts)

	return cmd
}

func (a *App) runAsk(ctx context.Context, name, display, prompt string, opts *askOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = observability.WithRequestID(ctx, observability.GenerateRequestID())
	ctx = observability.WithProvider(ctx, name)

	provider, err := a.registry.Get(ctx, name)
	if err != nil {
		fmt.Println("Failed to get response.")
		return err
	}

	model := provider.ResolveModel(opts.model)
	ctx = observability.WithModel(ctx, model)

	fmt.Printf("Asking %s (%s)...\n", display, model)

	text, err := provider.Ask(ctx, &domain.AskRequest{
		Prompt:      prompt,
		System:      opts.system,
		Model:       opts.model,
		Temperature: opts.temp,
		MaxTokens:   opts.maxTokens,
		JSONMode:    opts.jsonMode,
	})
	if err != nil {
		fmt.Println("Failed to get response.")
		return err
	}
	if text == "" {
		fmt.Println("Failed to get response.")
		return errNoResponse
	}

	fmt.Printf("\n--- Response ---\n\n%s\n\n----------------\n\n", text)
	return nil
}

func newProvidersCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List configured vendor adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := app.registry.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
