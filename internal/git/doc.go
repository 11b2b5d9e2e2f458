// Package git keeps the local crypto sources repository current before generation.
//
// Two backends implement VCS: GoGitClient drives go-git in process, CLIClient shells
// out to the git binary through a command.Runner. Source sequences clone, fetch,
// checkout and pull against either backend and classifies every failure as a
// repository access error.
package git
