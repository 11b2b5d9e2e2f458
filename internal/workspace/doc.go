// Package workspace manages the persistent staging tree handed to the generation engine.
//
// The tree is fixed (input/<module>, input/common_crypto, input/templates, output) and
// reused across runs. It is never cleaned automatically; instead every staged input
// group is removed and recopied before each run, so a run interrupted mid-copy is
// repaired by the next one.
package workspace
