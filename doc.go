// Package nameplate builds closed polygonal solids for fabricating
// nameplates: slabs, bevels, extruded outlines and boolean operations
// between them. All lengths are in millimeters and every solid has its
// bottom face at Z=0 unless moved with a Transform.
package nameplate
