package container

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Asset is a decoded object payload. The concrete type is fixed by the
// object's Kind: *Texture, *Sprite, *AudioClip, *Mesh, *TextAsset, *Font,
// *Script or *Material.
type Asset interface {
	Kind() Kind
	sealed()
}

// ErrNoImage is returned by ImageData.Decode when the payload carries no
// pixel data at all.
var ErrNoImage = errors.New("no image data")

// MaxImageEdge bounds each dimension of a raw RGBA payload.
const MaxImageEdge = 1 << 15

// ImageData holds pixel data either as an encoded image file (PNG, JPEG,
// GIF, BMP, TIFF, WebP) or as raw top-down RGBA32 rows.
type ImageData struct {
	Encoded []byte
	Width   int
	Height  int
	RGBA    []byte
}

// Present reports whether any pixel data is available.
func (d *ImageData) Present() bool {
	return d != nil && (len(d.Encoded) > 0 || (len(d.RGBA) > 0 && d.Width > 0 && d.Height > 0))
}

// Decode materializes the image.
func (d *ImageData) Decode() (image.Image, error) {
	if !d.Present() {
		return nil, ErrNoImage
	}
	if len(d.Encoded) > 0 {
		img, _, err := image.Decode(bytes.NewReader(d.Encoded))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return img, nil
	}
	if d.Width > MaxImageEdge || d.Height > MaxImageEdge {
		return nil, fmt.Errorf("raw RGBA dimensions out of range: %dx%d", d.Width, d.Height)
	}
	want := d.Width * d.Height * 4
	if len(d.RGBA) < want {
		return nil, fmt.Errorf("raw RGBA too short: %d bytes for %dx%d", len(d.RGBA), d.Width, d.Height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	copy(img.Pix, d.RGBA[:want])
	return img, nil
}

// Payload is a raw field that the engine stores either as character text or
// as an opaque byte blob. IsText records which representation was used.
type Payload struct {
	IsText bool
	Text   string
	Bytes  []byte
}

// Present reports whether the payload is non-empty.
func (p Payload) Present() bool {
	if p.IsText {
		return p.Text != ""
	}
	return len(p.Bytes) > 0
}

// Content returns the payload bytes regardless of representation.
func (p Payload) Content() []byte {
	if p.IsText {
		return []byte(p.Text)
	}
	return p.Bytes
}

// Head returns up to n leading characters of the payload, decoding byte
// blobs as UTF-8 with invalid sequences kept as U+FFFD.
func (p Payload) Head(n int) string {
	s := p.Text
	if !p.IsText {
		s = string(p.Bytes)
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// TypeTree is a structured field dump as produced by the dumper, kept as raw
// JSON so key order and non-ASCII text survive unchanged.
type TypeTree json.RawMessage

// Present reports whether the tree holds anything worth writing. null, empty
// objects, empty arrays and empty strings count as absent.
func (t TypeTree) Present() bool {
	s := bytes.TrimSpace(t)
	switch string(s) {
	case "", "null", "{}", "[]", `""`:
		return false
	}
	return true
}

// Indent returns the tree as two-space indented JSON.
func (t TypeTree) Indent() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, t, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Texture is a decoded Texture2D.
type Texture struct {
	Name  string
	Image *ImageData
}

// Sprite is a decoded Sprite with its image resolved from the atlas.
type Sprite struct {
	Name  string
	Image *ImageData
}

// Sample is one named sub-clip of an AudioClip.
type Sample struct {
	Name string
	Data []byte
}

// AudioClip is a decoded AudioClip; Samples may be empty.
type AudioClip struct {
	Name    string
	Samples []Sample
}

// Mesh is a decoded Mesh with its Wavefront OBJ export.
type Mesh struct {
	Name        string
	OBJ         string
	ExportError string
}

// Export returns the OBJ text or the error the dumper reported for it.
func (m *Mesh) Export() (string, error) {
	if m.ExportError != "" {
		return "", errors.New(m.ExportError)
	}
	return m.OBJ, nil
}

// TextAsset is a decoded TextAsset.
type TextAsset struct {
	Name   string
	Script Payload
}

// Font is a decoded Font; Data is the embedded TTF/OTF blob.
type Font struct {
	Name string
	Data []byte
}

// Script is a decoded MonoBehaviour or MonoScript.
type Script struct {
	Name          string
	Source        Payload
	TypeTree      TypeTree
	TypeTreeError string
}

// Material is a decoded Material.
type Material struct {
	Name          string
	TypeTree      TypeTree
	TypeTreeError string
}

func (*Texture) Kind() Kind   { return KindTexture }
func (*Sprite) Kind() Kind    { return KindSprite }
func (*AudioClip) Kind() Kind { return KindAudio }
func (*Mesh) Kind() Kind      { return KindMesh }
func (*TextAsset) Kind() Kind { return KindText }
func (*Font) Kind() Kind      { return KindFont }
func (*Script) Kind() Kind    { return KindScript }
func (*Material) Kind() Kind  { return KindMaterial }

func (*Texture) sealed()   {}
func (*Sprite) sealed()    {}
func (*AudioClip) sealed() {}
func (*Mesh) sealed()      {}
func (*TextAsset) sealed() {}
func (*Font) sealed()      {}
func (*Script) sealed()    {}
func (*Material) sealed()  {}
