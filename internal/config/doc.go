// Package config provides configuration management for pagesift.
//
// This package defines:
//   - Default values for all crawl options
//   - The Config structure holding one crawl invocation's settings
//   - Selector parsing (CLI "tag.class" syntax and ordered YAML mappings)
//   - Configuration file loading (.pagesift.yaml)
//   - Validation with sentinel errors
//
// Design decision: Configuration is explicit and passed via dependency
// injection rather than global state. This makes testing easier and
// dependencies clear.
package config
