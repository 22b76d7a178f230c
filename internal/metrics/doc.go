// Package metrics owns the Prometheus registry of a framegraph process and
// the collectors the scheduler updates while a pipeline runs.
//
// Every collector is registered under a service name so that components can
// own and release their metrics independently. All Pipeline methods are safe
// to call on a nil receiver, which lets engine code run without metrics.
package metrics
