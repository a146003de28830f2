// Package config provides YAML configuration loading for fluentlite.
//
// Configuration is optional: the facade can be constructed directly with
// an Options value. This package exists for applications that prefer a
// file-driven setup with environment variable overrides.
//
// # Configuration
//
//	database:
//	  path: "./data/app.db"
//	  busy_timeout: 30000   # milliseconds
//	  readonly: false
//	  file_must_exist: false
//	  verbose: false
//	logging:
//	  enabled: true
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db := fluentlite.New(cfg.Database.Path, fluentlite.OptionsFromConfig(cfg))
package config
