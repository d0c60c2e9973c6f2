package extract

import (
	"fmt"

	"github.com/backmassage/unityrip/internal/container"
	"github.com/backmassage/unityrip/internal/naming"
)

// extractAudio writes one <subname>.wav per sample. A clip without samples
// produces nothing.
func extractAudio(p *pass, obj container.Object, a container.Asset) (int, error) {
	clip := a.(*container.AudioClip)
	id := idString(obj.PathID())
	n := 0
	for i, s := range clip.Samples {
		name := naming.OrDefault(s.Name, "audio", obj.PathID())
		owner := fmt.Sprintf("%s#%d", id, i)
		path, err := p.save(container.KindAudio, owner, naming.Plain(name, ".wav"), id, s.Data)
		if err != nil {
			return n, err
		}
		p.log.Info("    - Audio saved: %s", path)
		n++
	}
	return n, nil
}
