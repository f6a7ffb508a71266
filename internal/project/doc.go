// Package project builds and persists the Sublime Text project file of an
// AVR project. Builder composes a fresh document from toolchain probes and
// the chosen settings; Merger reconciles it with a project file already on
// disk, refreshing only the build environment and the per-language
// code-completion options so that user edits elsewhere survive.
package project
