// Package toolchain introspects an installed AVR-GCC toolchain. It locates the
// executables, asks the compiler for its version and built-in preprocessor
// macros, asks the assembler for the devices it supports, and translates
// macro tables into compiler options.
//
// Probes never fail hard once the toolchain has been located: a query that
// produces no usable data returns a result marked Degraded so callers can
// carry on with reduced information.
package toolchain
