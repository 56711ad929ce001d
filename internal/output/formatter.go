package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/wesleyorama2/restcall/internal/bench"
	"github.com/wesleyorama2/restcall/internal/http"
)

// Formatter renders requests and responses as human-readable text
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  scheme,
	}
}

// FormatRequest formats a composed request for display
func (f *Formatter) FormatRequest(req *http.ComposedRequest) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "▶ REQUEST: %s %s\n", f.scheme.Method.Sprint(req.Method), f.scheme.URL.Sprint(req.URL()))

	if f.Verbose || len(req.Header) > 0 {
		buf.WriteString("  Headers:\n")
		f.writeHeaders(&buf, req.Header)
	}

	if len(req.Body) > 0 {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(string(req.Body)))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats a resolved response for display
func (f *Formatter) FormatResponse(resp *http.Response) string {
	var buf strings.Builder

	statusColor := f.scheme.StatusError
	if resp.IsSuccess() {
		statusColor = f.scheme.StatusOK
	} else if resp.IsRedirect() {
		statusColor = f.scheme.StatusWarn
	}

	fmt.Fprintf(&buf, "◀ RESPONSE: %s (%dms)\n", statusColor.Sprint(resp.Status), resp.GetResponseTimeMillis())

	if f.Verbose {
		buf.WriteString("  Timing:\n")
		fmt.Fprintf(&buf, "    DNS Lookup:         %dms\n", resp.GetDNSLookupTimeMillis())
		fmt.Fprintf(&buf, "    TCP Connection:     %dms\n", resp.GetTCPConnectTimeMillis())
		fmt.Fprintf(&buf, "    TLS Handshake:      %dms\n", resp.GetTLSHandshakeTimeMillis())
		fmt.Fprintf(&buf, "    Time to First Byte: %dms\n", resp.GetTimeToFirstByteMillis())
		fmt.Fprintf(&buf, "    Content Transfer:   %dms\n", resp.GetContentTransferTimeMillis())
		fmt.Fprintf(&buf, "    Total:              %dms\n", resp.GetTotalTimeMillis())

		buf.WriteString("  Headers:\n")
		f.writeHeaders(&buf, resp.Headers)
	}

	if body := describeBody(resp); body != "" {
		buf.WriteString("  Body:\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatError formats a call error. Errors carrying a response only show the
// message, the response itself is printed with FormatResponse.
func (f *Formatter) FormatError(err error) string {
	label := "error"
	var callErr *http.Error
	if errors.As(err, &callErr) {
		label = callErr.Kind.String()
	}
	return fmt.Sprintf("%s %s: %s\n", ErrorIcon(f.NoColor), f.scheme.Error.Sprint(label), err.Error())
}

// FormatExtracted lists extracted values sorted by name
func (f *Formatter) FormatExtracted(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf strings.Builder
	buf.WriteString("  Extracted:\n")
	for _, name := range names {
		fmt.Fprintf(&buf, "    %s = %s\n", f.scheme.HeaderKey.Sprint(name), values[name])
	}
	return buf.String()
}

// FormatSchemaResult reports the outcome of a schema check
func (f *Formatter) FormatSchemaResult(err error) string {
	if err == nil {
		return fmt.Sprintf("%s Schema: %s\n", SuccessIcon(f.NoColor), f.scheme.Success.Sprint("valid"))
	}
	return fmt.Sprintf("%s Schema: %s\n", ErrorIcon(f.NoColor), f.scheme.Error.Sprint(err.Error()))
}

// FormatReport formats a benchmark report
func (f *Formatter) FormatReport(r *bench.Report) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "%s\n", f.scheme.Label.Sprint("Summary"))
	fmt.Fprintf(&buf, "  Requests:      %d in %s (%.1f req/s)\n", r.Requests, r.Duration.Round(1e6), r.Throughput())
	fmt.Fprintf(&buf, "  Succeeded:     %d\n", r.Succeeded)
	fmt.Fprintf(&buf, "  Status errors: %d\n", r.StatusErrors)
	fmt.Fprintf(&buf, "  Transport:     %d\n", r.TransportErrors)
	if r.OtherErrors > 0 {
		fmt.Fprintf(&buf, "  Other errors:  %d\n", r.OtherErrors)
	}
	fmt.Fprintf(&buf, "  Error rate:    %.2f%%\n", r.ErrorRate()*100)

	fmt.Fprintf(&buf, "%s\n", f.scheme.Label.Sprint("Latency"))
	fmt.Fprintf(&buf, "  min %s  mean %s  p50 %s  p90 %s  p99 %s  max %s\n",
		r.Min, r.Mean, r.P50, r.P90, r.P99, r.Max)

	if len(r.StatusCounts) > 0 {
		codes := make([]int, 0, len(r.StatusCounts))
		for code := range r.StatusCounts {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		fmt.Fprintf(&buf, "%s\n", f.scheme.Label.Sprint("Status codes"))
		for _, code := range codes {
			fmt.Fprintf(&buf, "  %d: %d\n", code, r.StatusCounts[code])
		}
	}

	return buf.String()
}

func (f *Formatter) writeHeaders(buf *strings.Builder, h map[string][]string) {
	keys := make([]string, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, value := range h[key] {
			fmt.Fprintf(buf, "    %s: %s\n", f.scheme.HeaderKey.Sprint(key), value)
		}
	}
}

// describeBody renders the parsed body. Binary bodies are summarized.
func describeBody(resp *http.Response) string {
	switch body := resp.Body.(type) {
	case nil:
		return ""
	case string:
		return body
	case []byte:
		if len(body) == 0 {
			return ""
		}
		if utf8.Valid(body) {
			return string(body)
		}
		return fmt.Sprintf("<%d bytes of binary data>", len(body))
	default:
		return formatJSONString(string(resp.RawBody))
	}
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, []byte(s), "  ", "  "); err != nil {
		return s
	}
	return prettyJSON.String()
}
