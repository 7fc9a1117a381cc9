// Package compose holds the README composition model: the closed section
// and template enumerations, the template registry, and the mutable
// Configuration from which generation requests are derived.
package compose
