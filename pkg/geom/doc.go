// Package geom binds a parametric geometry kernel to a tree of typed
// geometry nodes.
//
// Every node owns a kernel handle and a table of named parameters that is
// rediscovered from the kernel on each Update, so the names a caller can
// read and write are always exactly the ones the kernel currently exposes.
// Lofted nodes additionally own a CrossSectionSurface: an ordered list of
// cross sections, each with its own parameter table.
//
// Specializations layer behavior on top of Node:
//
//   - Wing fits span, area and aspect ratio with a bounded fixed-point loop
//     and redistributes chords for a target taper.
//   - Nacelle is a body of revolution with an airfoil profile and fixed
//     construction defaults.
//   - Fuselage derives its five cross sections from length, width, height
//     and the nose and tail ratios on every Update.
//
// All kernel access is synchronous and happens in program order. Share one
// model between goroutines by wrapping the kernel in a kernel.Session.
package geom
