// Package io reads and writes polypack files.
//
// # Test cases
//
// [WriteCase] emits the packing input format: the number of shapes n, then for
// each shape its cell count followed by one "x y" line per cell:
//
//	2
//	1
//	0 0
//	3
//	0 0
//	0 1
//	1 0
//
// [WriteAnswer] emits the placeholder answer file. [ExportCase] writes both
// as <index>.in and <index>.ans into a directory, and [WriteManifest] records
// the run that produced them in manifest.json. [ReadCase] parses the input
// format back.
//
// # Catalogues
//
// [WriteJSON] and [ExportJSON] encode a catalogue as JSON (cells as [x, y]
// pairs), the same form the cache stores. [ReadJSON] and [ImportJSON] decode
// and validate it. [WriteYAML] and [ExportYAML] produce an equivalent YAML
// document for human inspection; YAML is export only.
package io
