// Package memimage provides a sparse, address-indexed byte store used to
// assemble a firmware image from several fragments.
//
// # Model
//
// An Image is a set of non-overlapping segments sorted by start address.
// Each segment remembers the source it came from, so overlaps between
// fragments can be reported:
//
//	img := memimage.New()
//	run, _ := memimage.LoadBinary(boot, 0x08000000)
//	conflicts, err := img.Merge(run, "boot.bin")
//
// Merge follows a last-write-wins policy: bytes from a later Merge call
// replace bytes already stored at the same addresses. Every replaced range
// is returned as a Conflict. Conflicts are informational, never errors.
//
// # Address space
//
// Addresses are 32-bit. Exclusive range ends are carried as uint64 so a
// segment may end exactly at 1<<32. Any byte that would land at or above
// 1<<32 is rejected with an AddressOverflowError.
//
// # Reading
//
// ReadRange returns a flat slice of the image, filling unoccupied addresses
// with a pad byte:
//
//	buf, err := img.ReadRange(0x08000000, 0x08010000, 0xFF)
//
// Once an image is sealed (the encode package seals it before serializing),
// further Merge calls fail with ErrSealed.
package memimage
