// Package scene models the host scene the tube scripts live in: an ordered
// set of actors, each carrying scripts that are activated to produce geometry.
package scene
