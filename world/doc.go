// Package world is the store collaborator: it reads and writes map
// records in a world directory and finds the references pointing at
// them.
//
// Records live under data/ as gzip-framed tag files named map_<id>.dat;
// the id is the filename, nothing inside the record repeats it. The
// allocation counter in data/idcounts.dat tracks the highest id ever
// handed out. Saves go through a temp-file rename with the data synced
// first, so a crash never leaves a half-written record, and deletion is
// soft: the file is renamed to a .bak suffix.
//
// WalkRefs scans level.dat, player data and every chunk of every region
// file for integer tags named "map", producing a RefIndex. The scan is
// cooperative: cancelling the context returns whatever was gathered so
// far with Partial set, and callers must treat a partial index as
// proving presence only, never absence. RewriteRef retargets a single
// reference, rebuilding the owning region file when needed.
package world
