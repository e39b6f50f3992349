package texture

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/logger"
)

// maxSize bounds texture dimensions; larger images are scaled down.
const maxSize = 4096

// Data describes a loaded texture.
type Data struct {
	ID     uint32
	Width  int
	Height int
}

// Source supplies raw file bytes.
type Source interface {
	Load(name string) ([]byte, error)
}

// Uploader creates and deletes GPU textures.
type Uploader interface {
	Upload(img *image.RGBA, mipmap bool) (uint32, error)
	Delete(id uint32)
}

// Pool loads each texture path once and hands out the cached result. A path
// that failed keeps its error and is never loaded again.
// It is owned by the render thread.
type Pool struct {
	src     Source
	up      Uploader
	entries map[string]Data
	failed  map[string]error
}

// NewPool creates an empty pool.
func NewPool(src Source, up Uploader) *Pool {
	return &Pool{
		src:     src,
		up:      up,
		entries: make(map[string]Data),
		failed:  make(map[string]error),
	}
}

// Get returns the texture for name, loading and uploading it on first use.
// A failed load returns the same error on every later call.
func (p *Pool) Get(name string, mipmap bool) (Data, error) {
	if d, ok := p.entries[name]; ok {
		return d, nil
	}
	if err, ok := p.failed[name]; ok {
		return Data{}, err
	}

	d, err := p.load(name, mipmap)
	if err != nil {
		p.failed[name] = err
		logger.Warn("texture failed", zap.String("path", name), zap.Error(err))
		return Data{}, err
	}
	p.entries[name] = d
	logger.Debug("texture loaded", zap.String("path", name), zap.Uint32("id", d.ID),
		zap.Int("width", d.Width), zap.Int("height", d.Height))
	return d, nil
}

func (p *Pool) load(name string, mipmap bool) (Data, error) {
	raw, err := p.src.Load(name)
	if err != nil {
		return Data{}, fmt.Errorf("texture %s: %w", name, err)
	}
	img, err := Decode(name, raw)
	if err != nil {
		return Data{}, err
	}

	rgba := ToRGBA(img)
	if w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy(); w > maxSize || h > maxSize {
		scale := float32(maxSize) / float32(max(w, h))
		rgba = Resize(rgba, max(1, int(float32(w)*scale)), max(1, int(float32(h)*scale)))
		logger.Debug("texture scaled down", zap.String("path", name), zap.Int("width", w), zap.Int("height", h))
	} else if rgba == img {
		// Decoders may hand back shared buffers; flip a private copy.
		rgba = cloneRGBA(rgba)
	}
	FlipVertical(rgba)

	id, err := p.up.Upload(rgba, mipmap)
	if err != nil {
		return Data{}, fmt.Errorf("texture %s: upload: %w", name, err)
	}

	return Data{ID: id, Width: rgba.Bounds().Dx(), Height: rgba.Bounds().Dy()}, nil
}

// Lookup returns an already loaded texture, or the zero Data.
func (p *Pool) Lookup(name string) Data {
	return p.entries[name]
}

// Failed reports whether name failed to load.
func (p *Pool) Failed(name string) bool {
	_, ok := p.failed[name]
	return ok
}

// Len returns the number of cached textures.
func (p *Pool) Len() int {
	return len(p.entries)
}

// Cleanup deletes every texture and empties the pool, failures included.
func (p *Pool) Cleanup() {
	for _, d := range p.entries {
		p.up.Delete(d.ID)
	}
	clear(p.entries)
	clear(p.failed)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
