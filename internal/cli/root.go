package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/restcall/internal/http"
	"github.com/wesleyorama2/restcall/internal/output"
)

var version = "0.1.0"

// errReported is returned by commands that already printed their failure.
var errReported = errors.New("command failed")

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	verbose   bool
	noColor   bool
	output    string
	timeout   time.Duration
	insecure  bool
	requestID string
	debug     bool
}

// NewRootCmd builds the restcall command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:     "restcall",
		Short:   "Compose REST calls from the terminal",
		Version: version,
		Long: `restcall sends HTTP requests built from a base URL, a path template,
query parameters, headers and a JSON or form body, and prints the resolved
response. Requests can also be kept in a YAML or JSON file and run by name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Show timing and headers")
	pf.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	pf.StringVarP(&g.output, "output", "o", "text", "Output format: text, json or yaml")
	pf.DurationVarP(&g.timeout, "timeout", "t", 30*time.Second, "Request timeout")
	pf.BoolVarP(&g.insecure, "insecure", "k", false, "Skip TLS certificate verification")
	pf.StringVar(&g.requestID, "request-id", "", "Send a random request ID in the named header")
	pf.BoolVar(&g.debug, "debug", false, "Log call diagnostics to stderr")

	for _, method := range []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"} {
		cmd.AddCommand(newMethodCmd(g, method))
	}
	cmd.AddCommand(newRunCmd(g))
	cmd.AddCommand(newBenchCmd(g))

	return cmd
}

// Execute runs the root command until it finishes or the process is
// interrupted. This is called by main.main().
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// formatter picks the output format. Text output is only colored when stdout
// is a terminal.
func (g *globalFlags) formatter(cmd *cobra.Command) (output.FormatProvider, error) {
	format, err := output.ParseFormat(g.output)
	if err != nil {
		return nil, err
	}
	noColor := g.noColor
	if !noColor {
		f, ok := cmd.OutOrStdout().(*os.File)
		noColor = !ok || !output.ColorEnabled(f)
	}
	return output.GetFormatter(format, g.verbose, noColor), nil
}

// clientOptions translates the global flags into client options. The
// timeout flag only overrides a configured timeout when set explicitly.
// A non-nil printer receives every composed request.
func (g *globalFlags) clientOptions(cmd *cobra.Command, configured bool, printer http.Observer) []http.ClientOption {
	var opts []http.ClientOption
	if !configured || cmd.Flags().Changed("timeout") {
		opts = append(opts, http.WithTimeout(g.timeout))
	}
	if g.insecure {
		opts = append(opts, http.WithInsecureSkipVerify())
	}
	if g.requestID != "" {
		opts = append(opts, http.WithRequestIDHeader(g.requestID))
	}

	var logObserver http.Observer
	if g.debug {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		logObserver = http.NewLogObserver(logger)
	}
	if printer != nil || logObserver != nil {
		opts = append(opts, http.WithObserver(http.MultiObserver(printer, logObserver)))
	}
	return opts
}

// showRequests reports whether composed requests are printed before the
// response: always for text, only in verbose mode for structured formats.
func (g *globalFlags) showRequests() bool {
	format, _ := output.ParseFormat(g.output)
	return format == output.FormatText || g.verbose
}
