// Package learning holds the progress and access-control rules of the platform.
//
// Every function here is pure: it takes the slice of state it needs and returns a value,
// without touching the store. The services package loads state and calls into it.
package learning
