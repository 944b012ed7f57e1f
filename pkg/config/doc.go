// Package config provides configuration management for drlx.
//
// Configuration is read from a YAML file (conventionally drlx.yaml) and
// may be overridden by environment variables:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("drlx.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention DRLX_SECTION_FIELD.
// For example:
//
//   - DRLX_PARSER_WORKERS overrides parser.workers
//   - DRLX_PARSER_VARIABLE_POLICY overrides parser.variable_policy
//   - DRLX_GIT_TOKEN sets git.auth.token (and switches auth to "token")
//   - DRLX_LOG_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// Validation collects every problem into a ValidationError holding one
// FieldError per offending field.
package config
