package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/restcall/internal/config"
	"github.com/wesleyorama2/restcall/internal/http"
	"github.com/wesleyorama2/restcall/internal/inspect"
	"github.com/wesleyorama2/restcall/internal/output"
)

// requestPrinter writes each composed request to w just before it is sent.
func requestPrinter(w io.Writer, p output.FormatProvider) http.Observer {
	return http.ObserverFunc(func(e http.Event) {
		if e.Kind == http.EventRequest {
			fmt.Fprint(w, p.FormatRequest(e.Request))
		}
	})
}

// performCall sends c and prints the response, extracted values and schema
// result. It returns the extracted values, and errReported when the call, an
// extraction or the schema check failed.
func performCall(cmd *cobra.Command, p output.FormatProvider, client *http.Client, c *config.Call) (map[string]string, error) {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	resp, err := client.Call(cmd.Context(), c.Method, c.Path, c.Options)
	if resp != nil {
		fmt.Fprint(out, p.FormatResponse(resp))
	}
	failed := false
	if err != nil {
		fmt.Fprint(errOut, p.FormatError(err))
		if resp == nil {
			return nil, errReported
		}
		failed = true
	}

	var extracted map[string]string
	if len(c.Extract) > 0 {
		var xerr error
		extracted, xerr = inspect.ExtractAll(resp, c.Extract)
		fmt.Fprint(out, p.FormatExtracted(extracted))
		if xerr != nil {
			fmt.Fprint(errOut, p.FormatError(xerr))
			failed = true
		}
	}

	if c.Schema != "" {
		serr := inspect.ValidateSchema(resp, c.Schema)
		fmt.Fprint(out, p.FormatSchemaResult(serr))
		if serr != nil {
			failed = true
		}
	}

	if failed {
		return extracted, errReported
	}
	return extracted, nil
}
