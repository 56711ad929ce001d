package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/restcall/internal/config"
	"github.com/wesleyorama2/restcall/internal/http"
	"github.com/wesleyorama2/restcall/internal/output"
)

// watchDebounceDelay is how long the config file must stay quiet before a
// change triggers a rerun.
const watchDebounceDelay = 300 * time.Millisecond

type runFlags struct {
	configFile  string
	environment string
	vars        []string
	watch       bool
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [request...]",
		Short: "Run named requests from a configuration file",
		Long: `Run sends the named requests from a YAML or JSON configuration file in
the order given, or every request sorted by name when none are named.
Values extracted from one response are available as {{name}} variables to
the requests that follow.`,
		Example: `  restcall run -c api.yaml -e dev login users.list
  restcall run -c api.json -e prod --var userId=42 users.get --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.configFile == "" {
				return errors.New("config file is required (--config)")
			}
			vars, err := parseVars(f.vars)
			if err != nil {
				return err
			}

			err = runRequests(cmd, g, f, args, vars)
			if !f.watch {
				return err
			}
			report := func(err error) {
				if err != nil && !errors.Is(err, errReported) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				}
			}
			report(err)
			return watchConfig(cmd, f.configFile, func() {
				report(runRequests(cmd, g, f, args, vars))
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configFile, "config", "c", "", "Configuration file (.yaml, .yml or .json)")
	flags.StringVarP(&f.environment, "environment", "e", "", "Environment to use (optional when the file defines one)")
	flags.StringArrayVar(&f.vars, "var", nil, "Variable override as name=value (repeatable)")
	flags.BoolVarP(&f.watch, "watch", "w", false, "Rerun when the configuration file changes")

	return cmd
}

func runRequests(cmd *cobra.Command, g *globalFlags, f *runFlags, names []string, vars map[string]string) error {
	errOut := cmd.ErrOrStderr()

	cfg, err := config.LoadConfig(f.configFile)
	if err != nil {
		return err
	}
	if verrs := config.ValidateConfig(cfg); len(verrs) > 0 {
		fmt.Fprintln(errOut, "Configuration validation errors:")
		for _, verr := range verrs {
			fmt.Fprintf(errOut, "  - %s\n", verr.Error())
		}
		return errReported
	}

	env, err := pickEnvironment(cfg, f.environment)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		for name := range cfg.Requests {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	p, err := g.formatter(cmd)
	if err != nil {
		return err
	}
	var printer http.Observer
	if g.showRequests() {
		printer = requestPrinter(cmd.OutOrStdout(), p)
	}
	format, _ := output.ParseFormat(g.output)

	vars = config.MergeEnvironments(vars, nil)
	var client *http.Client
	failed := false
	for _, name := range names {
		if client == nil {
			client, err = cfg.NewClient(env, vars, g.clientOptions(cmd, true, printer)...)
			if err != nil {
				return err
			}
		}

		call, err := cfg.Call(env, name, vars)
		if err != nil {
			fmt.Fprint(errOut, p.FormatError(err))
			failed = true
			continue
		}
		if format == output.FormatText {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", name)
		}

		extracted, err := performCall(cmd, p, client, call)
		if err != nil {
			failed = true
		}
		if len(extracted) > 0 {
			// Environment headers may reference the new values.
			vars = config.MergeEnvironments(vars, extracted)
			client = nil
		}
	}

	if failed {
		return errReported
	}
	return nil
}

// pickEnvironment returns name, or the only environment when name is empty.
func pickEnvironment(cfg *config.Config, name string) (string, error) {
	if name != "" {
		return name, config.ValidateEnvironment(cfg, name)
	}
	if len(cfg.Environments) == 1 {
		for only := range cfg.Environments {
			return only, nil
		}
	}
	names := make([]string, 0, len(cfg.Environments))
	for env := range cfg.Environments {
		names = append(names, env)
	}
	sort.Strings(names)
	return "", fmt.Errorf("environment is required (--environment), one of: %s", strings.Join(names, ", "))
}

func parseVars(specs []string) (map[string]string, error) {
	vars := make(map[string]string, len(specs))
	for _, s := range specs {
		name, value, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q, expected name=value", s)
		}
		vars[name] = value
	}
	return vars, nil
}

// watchConfig calls rerun after every burst of writes to path until the
// command context is cancelled. The directory is watched so editors that
// replace the file on save are still seen.
func watchConfig(cmd *cobra.Command, path string, rerun func()) error {
	out := cmd.OutOrStdout()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	fmt.Fprintf(out, "\nWatching %s for changes... (press Ctrl+C to stop)\n", path)

	var debounce <-chan time.Time
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) == target && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				debounce = time.After(watchDebounceDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		case <-debounce:
			debounce = nil
			fmt.Fprintf(out, "\nFile changed: %s\n\n", path)
			rerun()
			fmt.Fprintf(out, "\nWatching %s for changes... (press Ctrl+C to stop)\n", path)
		}
	}
}
