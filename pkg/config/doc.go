// Package config provides configuration management for valvemap.
//
// Configuration is read from a YAML file, decoded over the built-in
// defaults, overridden by environment variables and validated.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("valvemap.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("valvemap.yaml")
//
//  3. From defaults and the environment only:
//     cfg, err := config.LoadConfigWithEnvOverrides("")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention VALVEMAP_SECTION_FIELD:
//
//   - VALVEMAP_CATALOG_PATH overrides catalog.path
//   - VALVEMAP_WATCH_PATHS overrides watch.paths (comma-separated)
//   - VALVEMAP_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//   - VALVEMAP_SOURCE_GIT_AUTH_TOKEN overrides source.git.auth.token
//
// # Example Configuration
//
//	parser:
//	  max_file_size: 67108864
//	  strip_editor_keys: false
//	lint:
//	  enabled: true
//	  strict: false
//	watch:
//	  paths: ["maps"]
//	  extensions: [".map"]
//	  recursive: true
//	  debounce: 200ms
//	  rescan_schedule: "*/15 * * * *"
//	catalog:
//	  path: data/catalog.db
//	  busy_timeout: 5s
//	source:
//	  git:
//	    enabled: false
//	    repository: https://github.com/studio/maps.git
//	    branch: main
//	    path: maps/
//	    auth:
//	      type: token
//	    poll:
//	      interval: 1m
//	    clone:
//	      depth: 1
//	      local_path: data/source
//	server:
//	  enabled: true
//	  listen_address: 127.0.0.1:9464
//	  shutdown_timeout: 5s
//	telemetry:
//	  logging:
//	    level: info
//	    format: text
//	  metrics:
//	    enabled: true
//	    namespace: valvemap
//	    path: /metrics
//	  tracing:
//	    enabled: false
//	    sampler: always
//	    endpoint: localhost:4317
package config
