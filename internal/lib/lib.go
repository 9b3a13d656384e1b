// Packages lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains shared utilities such as the JSON encoding used by
// the book store.
package lib
