// Package extension installs editor packages that projects depend on.
// Packages are shipped as .sublime-package zip archives in a bundle
// directory and unpacked into the editor's Packages folder.
package extension
