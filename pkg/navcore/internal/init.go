// Package internal contains shared infrastructure for navcore: logging and the
// cooldown timer used to debounce native navigations.
// Types and functions in this package are not part of the public API.
package internal
