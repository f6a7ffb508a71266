// Package scaffold lists and extracts project templates. Templates are zip
// archives; their display name is the file name without ".zip" and with
// underscores shown as spaces. A set of templates is embedded in the binary
// and used unless a templates directory is configured.
package scaffold
