// Package fcs reads and writes Flow Cytometry Standard (FCS) files: the
// HEADER/TEXT/DATA/ANALYSIS/OTHER segment structure, the per-version
// keyword schema, and the DATA layout algebra, each exposed as an
// independent stage so a caller can stop at whichever granularity it
// needs (raw keywords, typed metadata, or a full dataset).
package fcs
