package debug

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ReadFramebuffer reads the back buffer as bottom-up RGBA rows.
func ReadFramebuffer(width, height int) []byte {
	if width <= 0 || height <= 0 {
		return nil
	}
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels
}
