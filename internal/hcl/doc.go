// Package hcl loads pipeline descriptions written in HCL into the
// format-agnostic config.Model.
//
// A file may contain one pipeline block with scheduler settings, any number
// of element blocks labelled with the element type and instance name, and
// connect blocks linking an output to an input:
//
//	pipeline {
//	  workers    = 4
//	  max_stages = 3
//	  tick       = "10ms"
//	}
//
//	element "counter" "source" {
//	  start = 1
//	}
//
//	element "print" "sink" {}
//
//	connect {
//	  from = "source.out"
//	  to   = "sink.in"
//	}
//
// Element attributes become property values. They are evaluated without
// variables, so they must be literals or expressions over literals.
package hcl
