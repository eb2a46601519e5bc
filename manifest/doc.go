// Package manifest describes what to merge: input descriptors parsed from
// "path@address" arguments, input kind detection, and the YAML merge
// manifest consumed by the hexmerge command.
package manifest
