// Package template defines the template engine seam the HTML renderer relies
// on. Implementations live in subpackages.
package template
