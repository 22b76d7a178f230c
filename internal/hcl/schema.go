package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block of a pipeline file.
type fileRoot struct {
	Pipeline []*pipelineBlock `hcl:"pipeline,block"`
	Elements []*elementBlock  `hcl:"element,block"`
	Connects []*connectBlock  `hcl:"connect,block"`
}

// pipelineBlock keeps its attributes raw so that durations can be written
// as strings and each value is checked with a precise source range.
type pipelineBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type elementBlock struct {
	Type string   `hcl:"type,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type connectBlock struct {
	From hcl.Expression `hcl:"from"`
	To   hcl.Expression `hcl:"to"`
}
