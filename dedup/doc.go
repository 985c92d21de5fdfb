// Package dedup orchestrates the duplicate-map pipeline: load every
// record, scan the world for references, merge each duplicate group
// into its best target, delete the absorbed sources, and compact the
// remaining id space.
//
// The pipeline is deliberately conservative. A source with live
// references is never merged. A merge touching anything but blank
// raster cells is rejected by the validator and reported, never forced.
// When the reference scan was interrupted or skipped files, every
// destructive step downgrades to a logged plan, because an unscanned
// reference could otherwise be orphaned. Residual divergence after an
// apply aborts the whole run with an InvariantError: it means the
// safety reasoning failed, so no further writes can be trusted.
package dedup
