// Package pipeline runs one generation: an optional repository update, module
// validation, workspace staging, template generation and distribution to downstream
// projects. Stages run in a fixed order and the first failure ends the run; files
// already written stay where they are.
package pipeline
