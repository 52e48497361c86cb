// Package gallery implements the HTTP client for the remote extension
// marketplace: name-filtered queries and package download/install.
package gallery
