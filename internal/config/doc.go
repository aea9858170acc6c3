// Package config provides configuration loading for svcreg.
//
// Configuration is loaded from a single YAML file. Defaults are applied
// first and a missing file is not an error, so a bare `svcreg serve` works
// out of the box. A malformed file, on the other hand, fails loudly.
//
// # Configuration Structure
//
//	server:
//	  addr: ":8090"
//	log:
//	  level: info    # debug, info, warn, error
//	  format: text   # text, json
//	services:
//	  datastore:
//	    setupDelay: 150ms
//	  cache:
//	    failSetup: true
//
// The services section tunes the sample services wired by the demo
// application: an artificial setup latency to make lazy first-use latency
// visible, and forced setup/probe failures to demonstrate how the registry
// caches and re-raises initialization errors.
package config
