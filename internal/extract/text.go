package extract

import (
	"bytes"

	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/naming"
)

// extractText writes <name>.txt with the payload's text or raw bytes as-is.
func extractText(p *pass, obj container.Object, a container.Asset) (int, error) {
	ta := a.(*container.TextAsset)
	if !ta.Script.Present() {
		p.log.Debug("    - TextAsset %d is empty", obj.PathID())
		return 0, nil
	}
	name := naming.OrDefault(ta.Name, "text", obj.PathID())
	id := idString(obj.PathID())
	path, err := p.save(container.KindText, id, naming.Plain(name, ".txt"), id, ta.Script.Content())
	if err != nil {
		return 0, err
	}
	p.log.Info("    - TextAsset saved: %s", path)
	return 1, nil
}

var otfMagic = []byte("OTTO")

// extractFont writes <name>.ttf, or <name>.otf when the blob starts with
// the OpenType CFF signature.
func extractFont(p *pass, obj container.Object, a container.Asset) (int, error) {
	f := a.(*container.Font)
	if len(f.Data) == 0 {
		p.log.Debug("    - Font %d has no font data", obj.PathID())
		return 0, nil
	}
	ext := ".ttf"
	if bytes.HasPrefix(f.Data, otfMagic) {
		ext = ".otf"
	}
	name := naming.OrDefault(f.Name, "font", obj.PathID())
	id := idString(obj.PathID())
	path, err := p.save(container.KindFont, id, naming.Plain(name, ext), id, f.Data)
	if err != nil {
		return 0, err
	}
	p.log.Info("    - Font saved: %s", path)
	return 1, nil
}
