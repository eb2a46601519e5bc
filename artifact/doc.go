// Package artifact reads merge inputs and writes merge outputs through
// github.com/viant/afs, so inputs may be local paths or any URL afs
// supports (mem://, file://, and the registered cloud schemes).
//
// Every input is read completely before merging starts, and the output is
// written only once the encoded image exists.
package artifact
