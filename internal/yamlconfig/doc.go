// Package yamlconfig loads pipeline descriptions written in YAML.
//
//	pipeline:
//	  workers: 4
//	  tick: 10ms
//	elements:
//	  - type: counter
//	    name: source
//	    properties:
//	      start: 1
//	connections:
//	  - from: source.out
//	    to: sink.in
package yamlconfig
