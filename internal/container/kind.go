package container

// Kind is the closed set of extractable object categories. KindOther is the
// sentinel for every type name the extractor does not recognize.
type Kind int

const (
	KindOther Kind = iota
	KindTexture
	KindSprite
	KindAudio
	KindMesh
	KindText
	KindFont
	KindScript
	KindMaterial

	kindCount
)

// NumKinds is the number of Kind values including KindOther.
const NumKinds = int(kindCount)

// Extractable lists the recognized kinds in reporting order.
var Extractable = []Kind{
	KindTexture,
	KindSprite,
	KindAudio,
	KindMesh,
	KindText,
	KindFont,
	KindScript,
	KindMaterial,
}

// All lists every kind in reporting order, KindOther last.
var All = append(append([]Kind{}, Extractable...), KindOther)

var kindKeys = [NumKinds]string{
	KindOther:    "other",
	KindTexture:  "textures",
	KindSprite:   "sprites",
	KindAudio:    "audio",
	KindMesh:     "meshes",
	KindText:     "texts",
	KindFont:     "fonts",
	KindScript:   "scripts",
	KindMaterial: "materials",
}

// Key returns the stats/option key of k, which is also the name of the
// output subdirectory for that kind.
func (k Kind) Key() string {
	if k < 0 || k >= kindCount {
		return kindKeys[KindOther]
	}
	return kindKeys[k]
}

func (k Kind) String() string { return k.Key() }

// typeKinds maps engine class names to kinds.
var typeKinds = map[string]Kind{
	"Texture2D":     KindTexture,
	"Sprite":        KindSprite,
	"AudioClip":     KindAudio,
	"Mesh":          KindMesh,
	"TextAsset":     KindText,
	"Font":          KindFont,
	"MonoBehaviour": KindScript,
	"MonoScript":    KindScript,
	"Material":      KindMaterial,
}

// KindOf classifies an engine type name. Matching is exact.
func KindOf(typeName string) Kind {
	if k, ok := typeKinds[typeName]; ok {
		return k
	}
	return KindOther
}

// ParseKind resolves a stats/option key such as "textures" back to its Kind.
func ParseKind(key string) (Kind, bool) {
	for i, s := range kindKeys {
		if s == key {
			return Kind(i), true
		}
	}
	return KindOther, false
}
