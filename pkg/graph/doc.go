// Package graph defines the layout graph types for padforge.
// The layout graph is an immutable DAG of parts, placements and assemblies
// that describes the physical shape of a controller model.
package graph
