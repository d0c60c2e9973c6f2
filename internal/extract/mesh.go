package extract

import (
	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/naming"
)

// extractMesh writes <name>.obj. Export failures are warnings.
func extractMesh(p *pass, obj container.Object, a container.Asset) (int, error) {
	m := a.(*container.Mesh)
	text, err := m.Export()
	if err != nil {
		p.warn("    ! Can't export mesh %d: %v", obj.PathID(), err)
		return 0, nil
	}
	name := naming.OrDefault(m.Name, "mesh", obj.PathID())
	id := idString(obj.PathID())
	path, err := p.save(container.KindMesh, id, naming.Plain(name, ".obj"), id, []byte(text))
	if err != nil {
		return 0, err
	}
	p.log.Info("    - Mesh saved: %s", path)
	return 1, nil
}
