package encode

import (
	"github.com/minio/highwayhash"
)

var fingerprintKey = []byte("go-fwmerge/image-fingerprint-key")

// Fingerprint returns a 64-bit HighwayHash of data, used to compare build outputs.
func Fingerprint(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}
