package assets

import "strings"

// Element is one of the seven canonical elemental categories.
type Element string

const (
	Fire     Element = "Fire"
	Water    Element = "Water"
	Grass    Element = "Grass"
	Electric Element = "Electric"
	Wind     Element = "Wind"
	Rock     Element = "Rock"
	Ice      Element = "Ice"
)

// DefaultElement is used for unrecognized category labels.
const DefaultElement = Wind

// Elements lists the canonical categories in a stable order.
var Elements = []Element{Fire, Water, Grass, Electric, Wind, Rock, Ice}

// elementAliases maps both naming schemes, lower-cased, to the canonical name.
var elementAliases = map[string]Element{
	"fire":     Fire,
	"pyro":     Fire,
	"water":    Water,
	"hydro":    Water,
	"grass":    Grass,
	"dendro":   Grass,
	"electric": Electric,
	"electro":  Electric,
	"wind":     Wind,
	"anemo":    Wind,
	"rock":     Rock,
	"geo":      Rock,
	"ice":      Ice,
	"cryo":     Ice,
}

// NormalizeElement maps a free-form category label to its canonical element.
// Matching ignores case and surrounding whitespace; anything unrecognized
// becomes DefaultElement.
func NormalizeElement(label string) Element {
	if e, ok := elementAliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return e
	}
	return DefaultElement
}

// AssetPaths names every bundled resource, relative to the asset file system.
type AssetPaths struct {
	ProfileBackground   string
	Avatar              string
	AvatarMask          string
	BannerFrame         string
	Character4Star      string
	Character5Star      string
	CharacterBackground string
	CharacterMask       string
	ElementIcons        map[Element]string
	Font                string
}

// DefaultPaths is the layout of the bundled assets directory.
func DefaultPaths() AssetPaths {
	return AssetPaths{
		ProfileBackground:   "profile/main_profile_bg.png",
		Avatar:              "profile/avatar.png",
		AvatarMask:          "profile/avatar_mask.png",
		BannerFrame:         "profile/banner_frame.png",
		Character4Star:      "profile/character_4.png",
		Character5Star:      "profile/character_5.png",
		CharacterBackground: "profile/character_bg.png",
		CharacterMask:       "profile/character_mask.png",
		ElementIcons: map[Element]string{
			Fire:     "element/pyro.png",
			Water:    "element/hydro.png",
			Grass:    "element/dendro.png",
			Electric: "element/electro.png",
			Wind:     "element/anemo.png",
			Rock:     "element/geo.png",
			Ice:      "element/cryo.png",
		},
		Font: "font/Genshin_Impact_subsetted.ttf",
	}
}

// Clone returns a deep copy.
func (p AssetPaths) Clone() AssetPaths {
	icons := make(map[Element]string, len(p.ElementIcons))
	for k, v := range p.ElementIcons {
		icons[k] = v
	}
	p.ElementIcons = icons
	return p
}

// Images returns every raster path, element icons in Elements order.
func (p AssetPaths) Images() []string {
	out := []string{
		p.ProfileBackground, p.Avatar, p.AvatarMask, p.BannerFrame,
		p.Character4Star, p.Character5Star, p.CharacterBackground, p.CharacterMask,
	}
	for _, e := range Elements {
		if path, ok := p.ElementIcons[e]; ok {
			out = append(out, path)
		}
	}
	return out
}
