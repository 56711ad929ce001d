package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/restcall/internal/bench"
	"github.com/wesleyorama2/restcall/internal/http"
	"github.com/wesleyorama2/restcall/internal/output"
)

func newBenchCmd(g *globalFlags) *cobra.Command {
	f := &requestFlags{}
	var (
		method      string
		requests    int
		concurrency int
		rps         float64
	)

	cmd := &cobra.Command{
		Use:   "bench URL",
		Short: "Send the same request repeatedly and report latency",
		Example: `  restcall bench https://api.example.com/health -n 1000 -c 20
  restcall bench localhost:8080/items -X POST -j '{"name":"x"}' --rate 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			method = strings.ToUpper(method)
			call, baseURL, err := f.call(method, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			p, err := g.formatter(cmd)
			if err != nil {
				return err
			}
			client, err := http.NewClient(baseURL, g.clientOptions(cmd, false, nil)...)
			if err != nil {
				return err
			}

			if format, _ := output.ParseFormat(g.output); format == output.FormatText {
				fmt.Fprintf(cmd.OutOrStdout(), "Benchmarking %s %s%s (%d requests, %d concurrent)\n",
					method, baseURL, call.Path, requests, concurrency)
			}

			report, err := bench.Run(cmd.Context(), client, bench.Plan{
				Method:      call.Method,
				Path:        call.Path,
				Options:     call.Options,
				Requests:    requests,
				Concurrency: concurrency,
				Rate:        rps,
			})
			if report != nil {
				fmt.Fprint(cmd.OutOrStdout(), p.FormatReport(report))
			}
			return err
		},
	}

	f.register(cmd.Flags(), true)
	flags := cmd.Flags()
	flags.StringVarP(&method, "method", "X", "GET", "HTTP method")
	flags.IntVarP(&requests, "requests", "n", 100, "Total number of requests")
	flags.IntVarP(&concurrency, "concurrency", "c", 10, "Requests in flight at once")
	flags.Float64Var(&rps, "rate", 0, "Maximum requests per second (0 = unlimited)")

	return cmd
}
