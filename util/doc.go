// Package util holds small helpers shared by the CLI, the server and the
// configuration layer: size parsing, secret masking and input sanitizing.
package util
