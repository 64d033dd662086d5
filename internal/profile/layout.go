package profile

import (
	"image"
	"image/color"

	imagepkg "github.com/youruser/profilecard/internal/image"
)

// Canvas size of every card.
const (
	CanvasWidth  = 1200
	CanvasHeight = 657
)

// SlotCount is the number of showcase slots on a card.
const SlotCount = 8

// layoutTable positions every region of the card. Right panel points are
// relative to RightPanelX.
type layoutTable struct {
	Banner         image.Rectangle
	Avatar         image.Rectangle
	ProfilePicture image.Point

	UID        image.Point
	PlayerName image.Point
	StatLabelX int
	Level      image.Point
	WorldLevel image.Point
	Signature  image.Point
	SigWidth   float64

	RightPanelX   int
	MainPageTab   image.Point
	NameCardTab   image.Point
	AchieveLabel  image.Point
	AbyssLabel    image.Point
	Achievement   image.Point
	Abyss         image.Point
	ShowcaseLabel image.Point
	QRBadge       image.Rectangle

	Slots [SlotCount]image.Point
}

var cardLayout = layoutTable{
	Banner:         image.Rect(35, 9, 35+528, 9+201),
	Avatar:         image.Rect(218, 98, 218+163, 98+163),
	ProfilePicture: image.Pt(140, 140),

	UID:        image.Pt(219, 32),
	PlayerName: image.Pt(299, 290),
	StatLabelX: 71,
	Level:      image.Pt(522, 344),
	WorldLevel: image.Pt(522, 388),
	Signature:  image.Pt(74, 450),
	SigWidth:   450,

	RightPanelX:   624,
	MainPageTab:   image.Pt(164, 53),
	NameCardTab:   image.Pt(386, 53),
	AchieveLabel:  image.Pt(115, 144),
	AbyssLabel:    image.Pt(391, 144),
	Achievement:   image.Pt(115, 170),
	Abyss:         image.Pt(391, 170),
	ShowcaseLabel: image.Pt(43, 235),
	QRBadge:       image.Rect(486, 10, 486+80, 10+80),

	Slots: [SlotCount]image.Point{
		{3, 303}, {142, 303}, {281, 303}, {420, 303},
		{3, 473}, {142, 473}, {281, 473}, {420, 473},
	},
}

// right converts a right panel point to canvas coordinates.
func (l layoutTable) right(p image.Point) image.Point {
	return image.Pt(p.X+l.RightPanelX, p.Y)
}

// pictureBox is where the profile picture sits inside the avatar surface.
func (l layoutTable) pictureBox() image.Rectangle {
	off := l.Avatar.Size().Sub(l.ProfilePicture).Div(2)
	return image.Rectangle{Min: off, Max: off.Add(l.ProfilePicture)}
}

// Slot geometry, relative to the slot point.
var (
	slotQualityOffset = image.Pt(5, 0)
	slotPictureOffset = image.Pt(2, 5)
	slotPictureSize   = 115
	slotIconOffset    = image.Pt(7, 4)
	slotIconSize      = 30
	slotLevelOffset   = image.Pt(63, 134)
)

var (
	white     = color.White
	slate     = imagepkg.MustHex("#47516A")
	bronze    = imagepkg.MustHex("#806244")
	parchment = imagepkg.MustHex("#7C7060")
	steel     = imagepkg.MustHex("#4E5367")
)

// Text styles. Family is filled in per render.
var (
	styleUID          = imagepkg.TextStyle{SizePx: 19, Color: white}
	styleName         = imagepkg.TextStyle{SizePx: 29, Color: slate, Align: imagepkg.AlignCenter}
	styleStat         = imagepkg.TextStyle{SizePx: 25, Color: white}
	styleStatValue    = imagepkg.TextStyle{SizePx: 25, Color: white, Align: imagepkg.AlignRight}
	styleSignature    = imagepkg.TextStyle{SizePx: 20, Color: parchment}
	styleTab          = imagepkg.TextStyle{SizePx: 18, Color: bronze, Align: imagepkg.AlignCenter}
	styleSectionLabel = imagepkg.TextStyle{SizePx: 19, Color: slate}
	styleSectionValue = imagepkg.TextStyle{SizePx: 29, Color: slate}
	styleShowcase     = imagepkg.TextStyle{SizePx: 23, Color: bronze}
	styleSlotLevel    = imagepkg.TextStyle{SizePx: 17, Color: steel, Align: imagepkg.AlignCenter}
)
