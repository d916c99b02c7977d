package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/intakechat/internal/chat"
	apierrors "github.com/diogo/intakechat/internal/errors"
	"github.com/diogo/intakechat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var colorSuccess = lipgloss.Color("#9ece6a")

var (
	errNoPrompt    = errors.New("no message given: pass it as an argument, with --file, or on stdin")
	errInterrupted = errors.New("interrupted")
)

// stdoutIsTTY decides between decorated and raw output; replaced in tests
var stdoutIsTTY = isStdoutTTY

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	theme := render.GetTUITheme()
	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(theme.TextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(theme.Text).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and clears the line
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// askOptions are the flags of the ask command
type askOptions struct {
	file   string
	output string
	copy   bool
	raw    bool
}

func newAskCmd(a *app) *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send one message and print the assistant's reply",
		Long: `Create a conversation thread, send a single message and print the reply.

The message is taken from the arguments, from --file, or from stdin.
Output is rendered as markdown on a terminal and printed raw otherwise.

Examples:
  intakechat ask "Hi, my name is Jane Doe"
  intakechat ask -f brief.md -o reply.md
  echo "We need a landing page" | intakechat ask --raw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.teardown()

			prompt, err := readPrompt(cmd, args, opts.file)
			if err != nil {
				return err
			}
			return runAsk(cmd, a, prompt, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the message from file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save the reply to file")
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the raw reply without decoration")

	return cmd
}

// readPrompt resolves the message from args, a file, or piped stdin
func readPrompt(cmd *cobra.Command, args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", errNoPrompt
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// runAsk runs one full cycle and prints the reply
func runAsk(cmd *cobra.Command, a *app, prompt string, opts askOptions) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return errNoPrompt
	}

	controller, err := a.newController()
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	decorate := !opts.raw && stdoutIsTTY()

	var spin *spinner
	if decorate {
		spin = newSpinner(stderr, "Connecting to assistant")
		spin.start()
	}
	if err := controller.Initialize(ctx); err != nil {
		if decorate {
			spin.stopWithError()
		}
		if chat.IsCanceled(err) {
			return fmt.Errorf("%w: %w", errInterrupted, err)
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	if decorate {
		spin.stopWithSuccess("Connected")
		spin = newSpinner(stderr, "Waiting for the assistant")
		spin.start()
	}

	before := len(controller.Messages())
	startTime := time.Now()
	err = controller.Submit(ctx, prompt)
	elapsed := time.Since(startTime)
	if err != nil {
		if decorate {
			spin.stopWithError()
		}
		if chat.IsCanceled(err) {
			a.logger.Info().Dur("elapsed", elapsed).Msg("ask interrupted")
			return fmt.Errorf("%w: %w", errInterrupted, err)
		}
		return fmt.Errorf("message failed: %w", err)
	}

	// user message plus reply
	messages := controller.Messages()
	if len(messages) < before+2 {
		if decorate {
			spin.stopWithError()
		}
		return fmt.Errorf("assistant did not reply: %w", apierrors.ErrNoContent)
	}
	if decorate {
		spin.stopWithSuccess("Done")
	}
	reply := messages[len(messages)-1].Content

	a.logger.Info().
		Str("thread", controller.ThreadID()).
		Dur("elapsed", elapsed).
		Int("reply_len", len(reply)).
		Msg("ask answered")

	if opts.copy || a.cfg.CopyToClipboard {
		if err := a.deps.CopyToClipboard(reply); err != nil {
			a.logger.Warn().Err(err).Msg("failed to copy reply to clipboard")
			if decorate {
				warnMsg := lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Render(
					fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
				)
				fmt.Fprintln(stderr, warnMsg)
			}
		} else if decorate {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(reply), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorate {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Reply saved to %s", opts.output),
			))
		}
		return nil
	}

	if !decorate {
		fmt.Fprint(stdout, reply)
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	theme := render.GetTUITheme()
	label := lipgloss.NewStyle().Foreground(theme.Assistant).Bold(true).Render("✦ Assistant")
	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Assistant).
		Foreground(theme.Text).
		Padding(0, 1).
		Width(bubbleWidth).
		Render(render.Reply(reply, render.FromConfig(a.cfg.Markdown).WithWidth(bubbleWidth-4)))

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, label)
	fmt.Fprintln(stdout, bubble)
	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
