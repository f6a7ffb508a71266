// Package updater keeps the bundled editor packages current. It looks up a
// GitHub release (or a configured mirror), downloads the package archive,
// verifies it against the release checksums and swaps it into the bundle
// directory. A small state file records which release each archive came
// from so repeat fetches are skipped.
package updater
