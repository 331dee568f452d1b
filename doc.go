// Package filterfx converts vector filter-effect graphs into
// presentation-document payloads.
//
// A filter graph is an ordered list of primitive specifications wired
// by result-name references. Executing it is a four-stage pipeline:
//
//   - a Registry resolves each primitive kind to its implementation,
//   - a Policy picks the strategy per node: native effect fragment,
//     vector approximation, or embedded metafile,
//   - a Chain runs the primitives level by level, sequentially or on a
//     worker pool, isolating node failures as identity pass-throughs,
//   - the emf and raster packages serialize fallback payloads, with the
//     raster path reached only when a metafile encode exceeds its cap.
//
// Chain results are cached process-wide by a key combining the graph
// structure, the parameter values and a fingerprint of the source
// geometry, so repeated conversions of an unchanged element are free.
//
// The primitive package registers the built-in primitive set; config
// loads the YAML configuration including the hot-reloadable policy
// table; metrics exposes Prometheus collectors for the Observer hook.
package filterfx
