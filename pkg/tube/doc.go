// Package tube builds a square-profile tube mesh along a chain of waypoints.
//
// The surface is a flat triangle list: every triangle owns its three vertices
// and the index buffer is the identity sequence 0..n-1. Four quads (eight
// triangles, 24 vertices) are emitted per segment.
package tube
