// Package app wires the sample services of the svcreg demo application.
//
// The sample set forms the classic diamond:
//
//	datastore            (no dependencies)
//	    ↑        ↑
//	  cache     auth     (both depend on datastore)
//	    ↑        ↑
//	      users          (depends on cache and auth)
//
// Every public operation of a sample service funnels through the registry's
// guard, so the first call against any of them lazily initializes the whole
// chain below it. The services are deliberately small in-memory stand-ins;
// their value is demonstrating lazy first-use, coalesced concurrent
// initialization, and failure caching against a realistic dependency shape.
//
// Service tuning (artificial setup latency, forced failures) comes from the
// services section of the configuration file, which makes the registry's
// behavior observable from the CLI without writing code.
package app
