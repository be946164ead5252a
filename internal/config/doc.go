// Package config loads and validates service configuration from YAML
// files with ${VAR} environment expansion.
//
// Loading is split into three layers: Load (parse), LoadWithDefaults
// (fill optional fields), LoadAndValidate (reject bad values). The
// snapshot store and redis cache are optional; leaving their sections
// blank disables them.
package config
