// Package errors provides the classified error taxonomy shared by every cryptogen component.
//
// Each pipeline stage reports failures in its own category (repository, missing_module,
// staging, generation, distribution) so the orchestrator and the CLI can name the failing
// stage and pick an exit code without parsing messages.
//
// Example usage:
//
//	err := errors.RepositoryAccessError("git fetch failed").
//		WithCause(runErr).
//		WithContext("path", repoPath).
//		Build()
package errors
