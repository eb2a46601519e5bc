// Package encode serializes a memimage.Image as a flat binary or as Intel HEX.
//
// Binary output starts at an origin address and runs to the end of the last
// occupied byte; gaps are filled with the pad byte. The origin is Spec.Base,
// which must not be above the lowest occupied address.
//
// HEX output keeps the image sparse: records cover occupied bytes only and
// never span a gap, so pad bytes never appear in it. Each record carries at
// most Spec.RecordSize data bytes (16 by default) and never crosses a 64 KiB
// window. Output uses upper-case digits and LF line endings.
package encode
