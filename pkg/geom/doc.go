// Package geom is the geometry library behind fdctl. It defines
// material-tagged geometric objects, point-in-object tests, bounding
// boxes, and a bounding-box tree for "which material is at point p"
// queries.
package geom
