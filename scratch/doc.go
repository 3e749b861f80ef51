// Package scratch holds uploads on local disk for the length of one
// request. Every File has a unique name and is removed by Release.
package scratch
