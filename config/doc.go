// Package config loads restcall request files. A file written in YAML or
// JSON defines environments (base URL, default headers, timeout and
// variables) and named requests (method, path template, path parameters,
// ordered query, headers, body, body type, extractions and a response
// schema).
//
// Basic Usage:
//
//	cfg, err := config.LoadConfig("api.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
//	    log.Fatal(errs[0])
//	}
//
//	client, err := cfg.NewClient("dev", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	call, err := cfg.Call("dev", "getUser", map[string]string{"id": "42"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := client.Call(ctx, call.Method, call.Path, call.Options)
//
// Variable Substitution:
//
// {{name}} references in base URLs, headers, paths, query values and string
// body fields are replaced with environment variables merged with the
// overrides passed to NewClient and Call. Unknown names are left as written.
package config
