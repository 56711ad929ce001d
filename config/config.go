package config

import (
	"github.com/wesleyorama2/restcall/internal/config"
)

type (
	// Config is a loaded request file.
	Config = config.Config
	// Environment is one target environment.
	Environment = config.Environment
	// Request is one named request.
	Request = config.Request
	// QueryParam is one query key with its values.
	QueryParam = config.QueryParam
	// QueryParams keeps query keys in file order.
	QueryParams = config.QueryParams
	// Call is a request resolved against an environment.
	Call = config.Call
	// ValidationError points at an invalid field.
	ValidationError = config.ValidationError
)

var (
	// LoadConfig reads a .yaml, .yml or JSON file.
	LoadConfig = config.LoadConfig
	// ParseConfig parses "yaml" or "json" data.
	ParseConfig = config.ParseConfig
	// ValidateConfig reports every invalid field, sorted by path.
	ValidateConfig = config.ValidateConfig
	// ProcessEnvironment replaces {{name}} references.
	ProcessEnvironment = config.ProcessEnvironment
	// MergeEnvironments overlays one variable set on another.
	MergeEnvironments = config.MergeEnvironments
)
