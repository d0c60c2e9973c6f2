package extract

import (
	"strings"

	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/naming"
)

// sourceSniffLen is how many leading characters the C# heuristic inspects.
const sourceSniffLen = 100

var sourceMarkers = []string{"using ", "namespace ", "class "}

// LooksLikeSource is a best-effort guess whether a script payload is C#
// source. A wrong guess only changes the file extension.
func LooksLikeSource(head string) bool {
	for _, m := range sourceMarkers {
		if strings.Contains(head, m) {
			return true
		}
	}
	return false
}

// extractScript writes the raw script source when present, otherwise a JSON
// dump of the object's field tree. Neither being available is not an error.
func extractScript(p *pass, obj container.Object, a container.Asset) (int, error) {
	s := a.(*container.Script)
	name := naming.OrDefault(s.Name, "script", obj.PathID())
	id := idString(obj.PathID())

	if s.Source.Present() {
		ext := ".txt"
		if LooksLikeSource(s.Source.Head(sourceSniffLen)) {
			ext = ".cs"
		}
		path, err := p.save(container.KindScript, id, naming.WithID(name, obj.PathID(), ext), id, s.Source.Content())
		if err != nil {
			return 0, err
		}
		p.log.Info("    - Script saved: %s", path)
		return 1, nil
	}

	if !s.TypeTree.Present() {
		if s.TypeTreeError != "" {
			p.log.Debug("    - Script %d: no source, typetree failed: %s", obj.PathID(), s.TypeTreeError)
		}
		return 0, nil
	}
	data, err := s.TypeTree.Indent()
	if err != nil {
		p.log.Debug("    - Script %d: typetree is not valid JSON: %v", obj.PathID(), err)
		return 0, nil
	}
	path, err := p.save(container.KindScript, id, naming.WithID(name, obj.PathID(), ".json"), id, data)
	if err != nil {
		return 0, err
	}
	p.log.Info("    - Script (JSON) saved: %s", path)
	return 1, nil
}

// extractMaterial writes <name>_<id>.json from the field tree. A tree that
// could not be dumped is a warning.
func extractMaterial(p *pass, obj container.Object, a container.Asset) (int, error) {
	m := a.(*container.Material)
	if m.TypeTreeError != "" {
		p.warn("    ! Can't export material %d: %s", obj.PathID(), m.TypeTreeError)
		return 0, nil
	}
	if !m.TypeTree.Present() {
		return 0, nil
	}
	data, err := m.TypeTree.Indent()
	if err != nil {
		p.warn("    ! Can't export material %d: %v", obj.PathID(), err)
		return 0, nil
	}
	name := naming.OrDefault(m.Name, "material", obj.PathID())
	id := idString(obj.PathID())
	path, err := p.save(container.KindMaterial, id, naming.WithID(name, obj.PathID(), ".json"), id, data)
	if err != nil {
		return 0, err
	}
	p.log.Info("    - Material saved: %s", path)
	return 1, nil
}
