package images

import (
	"crypto/md5"
	"fmt"
)

// Checksum returns a deterministic digest of the buffer's layout and samples, used
// to compare resize outputs across runs and worker counts.
//
// Returns:
//   - A hex-encoded MD5 checksum string, or "empty" for an empty buffer.
//
// Example:
//
// ```go
//
//	fmt.Printf("checksum: %s\n", dst.Checksum())
//
// ```
func (p *PixelBuffer) Checksum() string {
	if p.IsEmpty() {
		return "empty"
	}

	hash := md5.New()
	fmt.Fprintf(hash, "%dx%dx%d@%d:", p.Width, p.Height, p.Channels, p.BitDepth)
	hash.Write(p.Data)
	return fmt.Sprintf("%x", hash.Sum(nil))
}
