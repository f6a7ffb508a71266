// Package platform hides the differences between Unix and Windows that
// matter when looking for toolchain executables and writing extracted files:
// executable suffixes and permission bits.
package platform
