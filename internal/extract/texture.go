package extract

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/naming"
)

// extractTexture writes <name>_<id>.png. A texture without pixel data is
// skipped silently.
func extractTexture(p *pass, obj container.Object, a container.Asset) (int, error) {
	tex := a.(*container.Texture)
	if !tex.Image.Present() {
		p.log.Debug("    - Texture %d has no image data", obj.PathID())
		return 0, nil
	}
	name := naming.OrDefault(tex.Name, "texture", obj.PathID())
	return p.saveImage(container.KindTexture, obj, name, tex.Image, "Texture")
}

// extractSprite writes <name>_<id>.png. A sprite without pixel data is
// reported as a warning.
func extractSprite(p *pass, obj container.Object, a container.Asset) (int, error) {
	sp := a.(*container.Sprite)
	name := naming.OrDefault(sp.Name, "sprite", obj.PathID())
	if !sp.Image.Present() {
		p.warn("    ! Sprite %s has no image data", naming.Sanitize(name))
		return 0, nil
	}
	return p.saveImage(container.KindSprite, obj, name, sp.Image, "Sprite")
}

func (p *pass) saveImage(kind container.Kind, obj container.Object, name string, d *container.ImageData, label string) (int, error) {
	img, err := d.Decode()
	if err != nil {
		if errors.Is(err, container.ErrNoImage) {
			return 0, nil
		}
		return 0, err
	}
	img = fitImage(img, p.opts.MaxTextureSize)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return 0, err
	}
	id := idString(obj.PathID())
	path, err := p.save(kind, id, naming.WithID(name, obj.PathID(), ".png"), id, buf.Bytes())
	if err != nil {
		return 0, err
	}
	p.log.Info("    - %s saved: %s", label, path)
	return 1, nil
}

// fitImage scales img down so its longer edge is at most maxEdge, keeping
// the aspect ratio. maxEdge <= 0 disables scaling.
func fitImage(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return img
	}
	tw, th := maxEdge, maxEdge
	if w >= h {
		th = max(1, h*maxEdge/w)
	} else {
		tw = max(1, w*maxEdge/h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
