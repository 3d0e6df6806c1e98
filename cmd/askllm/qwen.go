package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidbz/askllm/internal/domain"
	"github.com/davidbz/askllm/internal/observability"
)

func banner(title string) string {
	bar := strings.Repeat("=", 20)
	return bar + " " + title + " " + bar
}

func newQwenCommand(app *App) *cobra.Command {
	opts := &askOptions{}
	var noThinking bool
	var textMode bool

	cmd := &cobra.Command{
		Use:   "qwen [prompt]",
		Short: "Ask Qwen a question (streams the answer by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prompt string
			if len(args) > 0 {
				prompt = args[0]
			} else {
				p, err := readInteractivePrompt()
				if err != nil {
					return err
				}
				prompt = p
			}

			if textMode {
				return app.runAsk(cmd.Context(), "qwen", "Qwen", prompt, opts)
			}
			return app.runQwenStream(cmd.Context(), prompt, opts, !noThinking)
		},
	}
	addAskFlags(cmd, opts)
	cmd.Flags().BoolVar(&noThinking, "no-thinking", false, "Disable the thinking output channel")
	cmd.Flags().BoolVar(&textMode, "text", false, "Return the answer in one block instead of streaming")

	return cmd
}

// readInteractivePrompt asks for a prompt on stdin when none was given
// on the command line.
func readInteractivePrompt() (string, error) {
	fmt.Println("Qwen Interactive Mode (Ctrl+C to exit)")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Print("Your question: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read prompt: %w", err)
	}

	prompt := strings.TrimSpace(line)
	if prompt == "" {
		return "", domain.ErrEmptyPrompt
	}
	return prompt, nil
}

func (a *App) runQwenStream(ctx context.Context, prompt string, opts *askOptions, thinking bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = observability.WithRequestID(ctx, observability.GenerateRequestID())
	ctx = observability.WithProvider(ctx, "qwen")

	model := a.qwen.ResolveModel(opts.model)
	ctx = observability.WithModel(ctx, model)

	fmt.Printf("Asking Qwen (%s)...\n", model)

	chunks, err := a.qwen.AskStream(ctx, &domain.AskRequest{
		Prompt:      prompt,
		System:      opts.system,
		Model:       opts.model,
		Temperature: opts.temp,
		MaxTokens:   opts.maxTokens,
	}, thinking)
	if err != nil {
		fmt.Println("Failed to get response.")
		return err
	}

	if thinking {
		fmt.Println("\n" + banner("Thinking process"))
	}

	answering := false
	gotAnswer := false
	for chunk := range chunks {
		if chunk.Err != nil {
			fmt.Println()
			fmt.Println("Failed to get response.")
			return chunk.Err
		}

		if chunk.Reasoning != "" && thinking && !answering {
			fmt.Print(chunk.Reasoning)
		}

		if chunk.Delta != "" {
			// One-time transition marker when the answer channel
			// starts producing after any reasoning output.
			if !answering {
				fmt.Println("\n" + banner("Response"))
				answering = true
			}
			fmt.Print(chunk.Delta)
			gotAnswer = true
		}
	}
	fmt.Println()

	if !gotAnswer {
		fmt.Println("Failed to get response.")
		return errNoResponse
	}
	return nil
}
