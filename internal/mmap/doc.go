// Package mmap maps input files read-only into memory.
//
// Input files are scanned front to back exactly once, so callers usually
// advise AccessSequential right after Open:
//
//	m, err := mmap.Open("scores.tsv")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//
//	data, err := m.Range(0, int64(m.Size()))
//
// Unix platforms use mmap(2) and madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
//
// A Mapping is safe for concurrent reads. Slices obtained from Bytes or Range
// must not be used after Close.
package mmap
