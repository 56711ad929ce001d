package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Endpoint is a base URL parsed once at client construction.
type Endpoint struct {
	Scheme   string
	Hostname string
	Port     int
	User     *url.Userinfo
	BasePath string
}

// ParseBaseURL parses a base URL into its scheme, host, port, credentials and path.
// Only http and https are accepted. When the URL carries no port, the scheme's
// default (80 or 443) is used.
func ParseBaseURL(raw string) (*Endpoint, error) {
	if raw == "" {
		return nil, invalidArgument("base URL required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf("invalid base URL: %v", err), Err: err}
	}

	var defaultPort int
	switch u.Scheme {
	case "http":
		defaultPort = 80
	case "https":
		defaultPort = 443
	default:
		return nil, invalidArgument(fmt.Sprintf("unsupported URL scheme: %q (only http and https are allowed)", u.Scheme))
	}

	if u.Hostname() == "" {
		return nil, invalidArgument("base URL must have a host")
	}

	port := defaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return nil, invalidArgument(fmt.Sprintf("invalid port: %q", p))
		}
	}

	return &Endpoint{
		Scheme:   u.Scheme,
		Hostname: u.Hostname(),
		Port:     port,
		User:     u.User,
		BasePath: u.EscapedPath(),
	}, nil
}

// Auth returns the userinfo of the base URL in "user:password" form, or "".
func (e *Endpoint) Auth() string {
	if e.User == nil {
		return ""
	}
	if password, ok := e.User.Password(); ok {
		return e.User.Username() + ":" + password
	}
	return e.User.Username()
}

// Compose joins the base path and a relative path with a single separating slash.
func (e *Endpoint) Compose(relativePath string) (string, error) {
	if relativePath == "" {
		return "", invalidArgument("path required")
	}
	return joinPath(e.BasePath, relativePath), nil
}

// String renders the endpoint back into a URL without credentials.
func (e *Endpoint) String() string {
	host := e.Hostname
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if !e.isDefaultPort() {
		host += ":" + strconv.Itoa(e.Port)
	}
	return e.Scheme + "://" + host + e.BasePath
}

func (e *Endpoint) isDefaultPort() bool {
	return (e.Scheme == "http" && e.Port == 80) || (e.Scheme == "https" && e.Port == 443)
}

func joinPath(base, rel string) string {
	base = strings.TrimRight(base, "/")
	rel = strings.TrimLeft(rel, "/")
	return base + "/" + rel
}
