package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/restcall/internal/bench"
	"github.com/wesleyorama2/restcall/internal/http"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a format name. An empty name selects text.
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(name)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json or yaml)", name)
	}
}

// FormatProvider is implemented by every output format
type FormatProvider interface {
	FormatRequest(req *http.ComposedRequest) string
	FormatResponse(resp *http.Response) string
	FormatError(err error) string
	FormatExtracted(values map[string]string) string
	FormatSchemaResult(err error) string
	FormatReport(r *bench.Report) string
}

// GetFormatter returns the provider for format
func GetFormatter(format OutputFormat, verbose, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}

// RequestData represents the structured data of a composed request
type RequestData struct {
	Method    string              `json:"method" yaml:"method"`
	URL       string              `json:"url" yaml:"url"`
	Headers   map[string][]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      any                 `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string              `json:"timestamp" yaml:"timestamp"`
}

// TimingData represents detailed timing information for a call
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of a resolved response
type ResponseData struct {
	StatusCode   int                 `json:"statusCode" yaml:"statusCode"`
	Status       string              `json:"status" yaml:"status"`
	Headers      map[string][]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body         any                 `json:"body,omitempty" yaml:"body,omitempty"`
	ResponseTime int64               `json:"responseTimeMs" yaml:"responseTimeMs"`
	Timing       *TimingData         `json:"timing,omitempty" yaml:"timing,omitempty"`
	Timestamp    string              `json:"timestamp" yaml:"timestamp"`
}

// ErrorData represents a failed call
type ErrorData struct {
	Kind       string `json:"kind" yaml:"kind"`
	Message    string `json:"message" yaml:"message"`
	StatusCode int    `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
}

// SchemaData represents the outcome of a schema check
type SchemaData struct {
	Valid  bool   `json:"valid" yaml:"valid"`
	Errors string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ReportData represents a benchmark report. Latencies are in milliseconds.
type ReportData struct {
	Requests        int64            `json:"requests" yaml:"requests"`
	Succeeded       int64            `json:"succeeded" yaml:"succeeded"`
	StatusErrors    int64            `json:"statusErrors" yaml:"statusErrors"`
	TransportErrors int64            `json:"transportErrors" yaml:"transportErrors"`
	OtherErrors     int64            `json:"otherErrors" yaml:"otherErrors"`
	StatusCounts    map[string]int64 `json:"statusCounts,omitempty" yaml:"statusCounts,omitempty"`
	DurationMs      float64          `json:"durationMs" yaml:"durationMs"`
	Throughput      float64          `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	ErrorRate       float64          `json:"errorRate" yaml:"errorRate"`
	Latency         LatencyData      `json:"latency" yaml:"latency"`
}

// LatencyData holds latency percentiles in milliseconds
type LatencyData struct {
	Min  float64 `json:"min" yaml:"min"`
	Mean float64 `json:"mean" yaml:"mean"`
	P50  float64 `json:"p50" yaml:"p50"`
	P90  float64 `json:"p90" yaml:"p90"`
	P99  float64 `json:"p99" yaml:"p99"`
	Max  float64 `json:"max" yaml:"max"`
}

func newRequestData(req *http.ComposedRequest) RequestData {
	data := RequestData{
		Method:    req.Method,
		URL:       req.URL(),
		Headers:   req.Header,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if len(req.Body) > 0 {
		var body any
		if err := json.Unmarshal(req.Body, &body); err != nil {
			body = string(req.Body)
		}
		data.Body = body
	}
	return data
}

func newResponseData(resp *http.Response, verbose bool) ResponseData {
	data := ResponseData{
		StatusCode:   resp.StatusCode,
		Status:       resp.Status,
		Body:         structuredBody(resp),
		ResponseTime: resp.GetResponseTimeMillis(),
		Timestamp:    time.Now().Format(time.RFC3339),
	}
	if verbose {
		data.Headers = resp.Headers
		data.Timing = &TimingData{
			DNSLookup:       resp.GetDNSLookupTimeMillis(),
			TCPConnection:   resp.GetTCPConnectTimeMillis(),
			TLSHandshake:    resp.GetTLSHandshakeTimeMillis(),
			TimeToFirstByte: resp.GetTimeToFirstByteMillis(),
			ContentTransfer: resp.GetContentTransferTimeMillis(),
			Total:           resp.GetTotalTimeMillis(),
		}
	}
	return data
}

// structuredBody converts the parsed body into something both encoders can
// represent. Binary bodies become a placeholder string.
func structuredBody(resp *http.Response) any {
	switch body := resp.Body.(type) {
	case nil:
		return nil
	case string:
		return body
	case []byte:
		if len(body) == 0 {
			return nil
		}
		return describeBody(resp)
	default:
		// Re-decode the raw text so YAML sees plain maps and slices.
		var v any
		if err := json.Unmarshal(resp.RawBody, &v); err != nil {
			return string(resp.RawBody)
		}
		return v
	}
}

func newErrorData(err error) ErrorData {
	data := ErrorData{Kind: "error", Message: err.Error()}
	var callErr *http.Error
	if errors.As(err, &callErr) {
		data.Kind = callErr.Kind.String()
		data.StatusCode = callErr.StatusCode()
	}
	return data
}

func newSchemaData(err error) SchemaData {
	if err == nil {
		return SchemaData{Valid: true}
	}
	return SchemaData{Errors: err.Error()}
}

func newReportData(r *bench.Report) ReportData {
	data := ReportData{
		Requests:        r.Requests,
		Succeeded:       r.Succeeded,
		StatusErrors:    r.StatusErrors,
		TransportErrors: r.TransportErrors,
		OtherErrors:     r.OtherErrors,
		DurationMs:      millis(r.Duration),
		Throughput:      r.Throughput(),
		ErrorRate:       r.ErrorRate(),
		Latency: LatencyData{
			Min:  millis(r.Min),
			Mean: millis(r.Mean),
			P50:  millis(r.P50),
			P90:  millis(r.P90),
			P99:  millis(r.P99),
			Max:  millis(r.Max),
		},
	}
	if len(r.StatusCounts) > 0 {
		data.StatusCounts = make(map[string]int64, len(r.StatusCounts))
		codes := make([]int, 0, len(r.StatusCounts))
		for code := range r.StatusCounts {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			data.StatusCounts[fmt.Sprint(code)] = r.StatusCounts[code]
		}
	}
	return data
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(v any) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, "failed to marshal output: "+err.Error())
	}
	return string(output) + "\n"
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req *http.ComposedRequest) string {
	return f.marshal(map[string]any{"request": newRequestData(req)})
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(resp *http.Response) string {
	return f.marshal(map[string]any{"response": newResponseData(resp, f.Verbose)})
}

// FormatError formats an error as JSON
func (f *JSONFormatter) FormatError(err error) string {
	return f.marshal(map[string]any{"error": newErrorData(err)})
}

// FormatExtracted formats extracted values as JSON
func (f *JSONFormatter) FormatExtracted(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	return f.marshal(map[string]any{"extracted": values})
}

// FormatSchemaResult formats a schema check as JSON
func (f *JSONFormatter) FormatSchemaResult(err error) string {
	return f.marshal(map[string]any{"schema": newSchemaData(err)})
}

// FormatReport formats a benchmark report as JSON
func (f *JSONFormatter) FormatReport(r *bench.Report) string {
	return f.marshal(map[string]any{"report": newReportData(r)})
}

// YAMLFormatter formats output as YAML documents
type YAMLFormatter struct {
	Verbose bool
}

func (f *YAMLFormatter) marshal(v any) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("---\nerror: %q\n", "failed to marshal output: "+err.Error())
	}
	return "---\n" + string(output)
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req *http.ComposedRequest) string {
	return f.marshal(map[string]any{"request": newRequestData(req)})
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(resp *http.Response) string {
	return f.marshal(map[string]any{"response": newResponseData(resp, f.Verbose)})
}

// FormatError formats an error as YAML
func (f *YAMLFormatter) FormatError(err error) string {
	return f.marshal(map[string]any{"error": newErrorData(err)})
}

// FormatExtracted formats extracted values as YAML
func (f *YAMLFormatter) FormatExtracted(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	return f.marshal(map[string]any{"extracted": values})
}

// FormatSchemaResult formats a schema check as YAML
func (f *YAMLFormatter) FormatSchemaResult(err error) string {
	return f.marshal(map[string]any{"schema": newSchemaData(err)})
}

// FormatReport formats a benchmark report as YAML
func (f *YAMLFormatter) FormatReport(r *bench.Report) string {
	return f.marshal(map[string]any{"report": newReportData(r)})
}
