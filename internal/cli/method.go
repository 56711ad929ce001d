package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wesleyorama2/restcall/internal/config"
	"github.com/wesleyorama2/restcall/internal/http"
)

// requestFlags are the per-call flags of the method commands.
type requestFlags struct {
	headers  []string
	query    []string
	params   []string
	form     []string
	extract  []string
	data     string
	jsonData string
	bodyType string
	schema   string
}

func newMethodCmd(g *globalFlags, method string) *cobra.Command {
	f := &requestFlags{}
	name := strings.ToLower(method)

	cmd := &cobra.Command{
		Use:   name + " URL",
		Short: fmt.Sprintf("Make a %s request to the specified URL", method),
		Example: fmt.Sprintf(`  restcall %s https://api.example.com/users/{id} -p id=42 -q expand=team
  restcall %s localhost:8080/items -H "Accept: application/json"`, name, name),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			call, baseURL, err := f.call(method, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			p, err := g.formatter(cmd)
			if err != nil {
				return err
			}

			var printer http.Observer
			if g.showRequests() {
				printer = requestPrinter(cmd.OutOrStdout(), p)
			}
			client, err := http.NewClient(baseURL, g.clientOptions(cmd, false, printer)...)
			if err != nil {
				return err
			}

			_, err = performCall(cmd, p, client, call)
			return err
		},
	}

	f.register(cmd.Flags(), method != "HEAD")
	cmd.Flags().StringArrayVar(&f.extract, "extract", nil, "Print a value from the JSON response as name=$.json.path (repeatable)")
	cmd.Flags().StringVar(&f.schema, "schema", "", "Validate the JSON response against a schema file or inline schema")

	return cmd
}

// register adds the request-building flags. Body flags are left out for
// methods that never carry one.
func (f *requestFlags) register(flags *pflag.FlagSet, body bool) {
	flags.StringArrayVarP(&f.headers, "header", "H", nil, `Header to send as "Name: value" (repeatable)`)
	flags.StringArrayVarP(&f.query, "query", "q", nil, "Query parameter as key=value; repeat a key to send a list")
	flags.StringArrayVarP(&f.params, "param", "p", nil, "Path parameter as name=value, bound to {name} in the URL path")
	if body {
		flags.StringVarP(&f.data, "data", "d", "", "Request body; @file reads a file and @- reads stdin")
		flags.StringVarP(&f.jsonData, "json", "j", "", "JSON request body; @file and @- are supported")
		flags.StringArrayVarP(&f.form, "form", "F", nil, "Form field as key=value (repeatable)")
		flags.StringVar(&f.bodyType, "type", "", "Body encoding: json or form (default inferred from Content-Type, then json)")
	}
}

// call turns the flags and the URL argument into a call and the base URL of
// the client that should send it.
func (f *requestFlags) call(method, rawURL string, stdin io.Reader) (*config.Call, string, error) {
	baseURL, path, query, err := parseURL(rawURL)
	if err != nil {
		return nil, "", err
	}

	opts := &http.CallOptions{Query: query}
	for _, h := range f.headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, "", fmt.Errorf("invalid header %q, expected \"Name: value\"", h)
		}
		opts.WithHeader(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	for _, q := range f.query {
		key, value, _ := strings.Cut(q, "=")
		if key == "" {
			return nil, "", fmt.Errorf("invalid query parameter %q, expected key=value", q)
		}
		opts.WithQueryParam(key, value)
	}
	for _, p := range f.params {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, "", fmt.Errorf("invalid path parameter %q, expected name=value", p)
		}
		opts.WithPathParam(name, value)
	}
	if err := f.setBody(opts, stdin); err != nil {
		return nil, "", err
	}

	extract, err := parseExtract(f.extract)
	if err != nil {
		return nil, "", err
	}
	schema, err := readSchema(f.schema)
	if err != nil {
		return nil, "", err
	}

	return &config.Call{
		Method:  method,
		Path:    path,
		Options: opts,
		Extract: extract,
		Schema:  schema,
	}, baseURL, nil
}

func (f *requestFlags) setBody(opts *http.CallOptions, stdin io.Reader) error {
	sources := 0
	for _, set := range []bool{f.data != "", f.jsonData != "", len(f.form) > 0} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return errors.New("only one of --data, --json and --form may be used")
	}

	bodyType, err := http.ParseBodyType(f.bodyType)
	if err != nil {
		return err
	}

	switch {
	case len(f.form) > 0:
		if bodyType == http.BodyTypeJSON {
			return errors.New("--form cannot be sent as json")
		}
		q := http.NewQuery()
		for _, field := range f.form {
			key, value, _ := strings.Cut(field, "=")
			if key == "" {
				return fmt.Errorf("invalid form field %q, expected key=value", field)
			}
			q.Add(key, value)
		}
		opts.WithBody(q, http.BodyTypeForm)
		return nil
	case f.jsonData != "":
		if bodyType == http.BodyTypeUnset {
			bodyType = http.BodyTypeJSON
		}
		return setRawBody(opts, f.jsonData, bodyType, stdin)
	case f.data != "":
		bodyType = http.ResolveBodyType(bodyType, http.HeaderFromMap(opts.Headers))
		if bodyType == http.BodyTypeUnset {
			bodyType = http.BodyTypeJSON
		}
		return setRawBody(opts, f.data, bodyType, stdin)
	default:
		return nil
	}
}

// setRawBody decodes command line data so the body encoder can serialize
// it: JSON text becomes a value, form text an ordered query.
func setRawBody(opts *http.CallOptions, arg string, t http.BodyType, stdin io.Reader) error {
	raw, err := readArg(arg, stdin)
	if err != nil {
		return err
	}

	if t == http.BodyTypeForm {
		q, err := parseRawQuery(strings.TrimSpace(string(raw)))
		if err != nil {
			return fmt.Errorf("invalid form body: %w", err)
		}
		opts.WithBody(q, t)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	if v == nil {
		// A literal null still sends a body.
		v = json.RawMessage("null")
	}
	opts.WithBody(v, t)
	return nil
}

// readArg resolves @file and @- references.
func readArg(arg string, stdin io.Reader) ([]byte, error) {
	switch {
	case arg == "@-":
		return io.ReadAll(stdin)
	case strings.HasPrefix(arg, "@"):
		return os.ReadFile(arg[1:])
	default:
		return []byte(arg), nil
	}
}

// parseURL splits a URL argument into the client base URL (scheme, user info
// and host), the call path and its query. The path is kept as typed so
// {name} placeholders survive. A missing scheme defaults to http.
func parseURL(fullURL string) (string, string, *http.Query, error) {
	if !strings.Contains(fullURL, "://") {
		fullURL = "http://" + fullURL
	}
	scheme, rest, _ := strings.Cut(fullURL, "://")

	authority, remainder := rest, ""
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		authority, remainder = rest[:i], rest[i:]
	}
	if authority == "" {
		return "", "", nil, fmt.Errorf("invalid URL %q: missing host", fullURL)
	}
	remainder, _, _ = strings.Cut(remainder, "#")
	path, rawQuery, _ := strings.Cut(remainder, "?")
	if path == "" {
		path = "/"
	}

	query, err := parseRawQuery(rawQuery)
	if err != nil {
		return "", "", nil, fmt.Errorf("invalid URL %q: %w", fullURL, err)
	}
	return scheme + "://" + authority, path, query, nil
}

// parseRawQuery decodes a&b=1&a=2 keeping first-seen key order.
func parseRawQuery(raw string) (*http.Query, error) {
	q := http.NewQuery()
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, err
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}
		q.Add(k, v)
	}
	return q, nil
}

// parseExtract reads name=path pairs. A bare path is named after itself.
func parseExtract(specs []string) (map[string]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(specs))
	for _, s := range specs {
		name, path, ok := strings.Cut(s, "=")
		if !ok {
			name, path = s, s
		}
		if name == "" || path == "" {
			return nil, fmt.Errorf("invalid extraction %q, expected name=$.path", s)
		}
		out[name] = path
	}
	return out, nil
}

// readSchema returns an inline schema as is and reads anything else as a file.
func readSchema(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "{") {
		return ref, nil
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("error reading schema: %w", err)
	}
	return string(data), nil
}
