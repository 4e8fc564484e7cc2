//go:build tinygo

package hal

import "strconv"

type tinyGoHostFramebuffer struct {
	w        int
	h        int
	stride   int
	buf      []byte
	logger   Logger
	presents int
}

func newTinyGoHostFramebuffer(w, h int, logger Logger) *tinyGoHostFramebuffer {
	stride := w * 2
	return &tinyGoHostFramebuffer{
		w:      w,
		h:      h,
		stride: stride,
		buf:    make([]byte, stride*h),
		logger: logger,
	}
}

func (f *tinyGoHostFramebuffer) Width() int          { return f.w }
func (f *tinyGoHostFramebuffer) Height() int         { return f.h }
func (f *tinyGoHostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *tinyGoHostFramebuffer) StrideBytes() int    { return f.stride }
func (f *tinyGoHostFramebuffer) Buffer() []byte      { return f.buf }

func (f *tinyGoHostFramebuffer) ClearRGB(r, g, b uint8) {
	pixel := RGB565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *tinyGoHostFramebuffer) Present() error {
	f.presents++
	if f.logger != nil {
		f.logger.WriteLineString("fb: present " + strconv.Itoa(f.presents))
	}
	return nil
}
