// Package http is the public entry point to the restcall request pipeline:
// a client bound to a base URL that composes a call from a path template,
// query parameters, headers and a JSON or form body, sends it, and resolves
// the response into a status, headers and a parsed body.
//
// Basic Usage:
//
//	client, err := http.NewClient("https://api.example.com/v1",
//	    http.WithTimeout(30*time.Second),
//	    http.WithHeader("Authorization", "Bearer token"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opts := (&http.CallOptions{}).
//	    WithPathParam("id", "42").
//	    WithQueryParam("expand", "team")
//
//	resp, err := client.Get(context.Background(), "/users/{id}", opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Status: %d, TTFB: %v\n", resp.StatusCode, resp.Timing.TimeToFirstByte)
//
// Form Example:
//
//	form := http.NewQuery().
//	    Add("grant_type", "client_credentials").
//	    Add("client_id", "xxx")
//
//	resp, err := client.Post(ctx, "/oauth/token",
//	    (&http.CallOptions{}).WithBody(form, http.BodyTypeForm))
//
// Errors:
//
// Every failure is an *Error. Use errors.Is with ErrInvalidArgument,
// ErrTransport, ErrHTTPStatus or ErrMalformedResponse to branch on its kind.
// A non-2xx status returns both the response and the error.
//
// Thread Safety:
//
// Client is safe for concurrent use. Multiple goroutines may invoke methods
// on a Client simultaneously.
package http
