// Package userdata locates the Sublime Text data directory and the two
// package folders inside it, and reports on their health for the doctor
// command. Every location can be overridden through configuration.
package userdata
