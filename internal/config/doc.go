// Package config defines the format-agnostic description of a pipeline:
// its scheduler settings, element instances with their property values,
// and the connections between element ports. Concrete loaders, such as the
// HCL and YAML ones, translate files into a Model; the builder turns a
// Model into a graph.
package config
