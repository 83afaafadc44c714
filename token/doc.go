// Package token provides quoting support for field names appearing in
// kinded paths.
package token
