// Package datafiles holds files embedded into the binaries.
package datafiles

import _ "embed" // required for go:embed into a string

// EntryTableHTML is the html/template source of the entry table page.
//
//go:embed entrytable.html
var EntryTableHTML string
