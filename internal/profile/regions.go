package profile

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	imagepkg "github.com/youruser/profilecard/internal/image"
	"github.com/youruser/profilecard/internal/source"
	"github.com/youruser/profilecard/pkg/logger"
)

func (r *render) background() {
	r.region("background", func() error {
		bg, err := r.g.assets.LoadLocal(r.ctx, r.paths.ProfileBackground)
		if err != nil {
			return err
		}
		r.s.Blit(bg, 0, 0, CanvasWidth, CanvasHeight)
		return nil
	})
}

func (r *render) leftPanel(uid string, hideUID bool) {
	info := r.rec.PlayerInfo

	r.region("banner", r.banner)
	r.region("avatar", r.avatar)

	uidText := "UID " + info.UID
	if info.UID == "" {
		uidText = "UID " + uid
	}
	if hideUID {
		uidText = "UID: " + r.g.randomUID()
	}
	r.text(uidText, cardLayout.UID.X, cardLayout.UID.Y, styleUID)
	r.text(info.Nickname, cardLayout.PlayerName.X, cardLayout.PlayerName.Y, styleName)

	r.text("Adventure Rank", cardLayout.StatLabelX, cardLayout.Level.Y, styleStat)
	r.text(strconv.Itoa(info.Level), cardLayout.Level.X, cardLayout.Level.Y, styleStatValue)
	r.text("World Level", cardLayout.StatLabelX, cardLayout.WorldLevel.Y, styleStat)
	r.text(strconv.Itoa(info.WorldLevel), cardLayout.WorldLevel.X, cardLayout.WorldLevel.Y, styleStatValue)

	if strings.TrimSpace(info.Signature) != "" {
		style := styleSignature
		style.MaxWidth = cardLayout.SigWidth
		r.text(info.Signature, cardLayout.Signature.X, cardLayout.Signature.Y, style)
	}
}

// banner draws the name card stretched into the banner box with the frame
// over it at native size.
func (r *render) banner() error {
	card, err := r.g.assets.LoadRemote(r.ctx, r.rec.NameCard.URL, "")
	if err != nil {
		return err
	}
	frame, err := r.g.assets.LoadLocal(r.ctx, r.paths.BannerFrame)
	if err != nil {
		return err
	}
	b := cardLayout.Banner
	r.s.Blit(card, b.Min.X, b.Min.Y, b.Dx(), b.Dy())
	r.s.Blit(frame, b.Min.X, b.Min.Y, 0, 0)
	return nil
}

// avatar draws the masked profile picture over the avatar background. When
// the composite cannot be built the raw picture is stretched into the avatar
// box instead.
func (r *render) avatar() error {
	box := cardLayout.Avatar
	picture, err := r.compositeAvatar()
	if err == nil {
		r.s.Blit(picture, box.Min.X, box.Min.Y, 0, 0)
		return nil
	}
	r.g.logger.Warn(r.ctx, "avatar composite failed, drawing raw picture",
		logger.Error(err))

	raw, err := r.g.assets.LoadRemote(r.ctx, r.rec.ProfilePicture.URL, "")
	if err != nil {
		return err
	}
	r.s.Blit(raw, box.Min.X, box.Min.Y, box.Dx(), box.Dy())
	return nil
}

func (r *render) compositeAvatar() (image.Image, error) {
	bg, err := r.g.assets.LoadLocal(r.ctx, r.paths.Avatar)
	if err != nil {
		return nil, err
	}
	mask, err := r.g.assets.LoadLocal(r.ctx, r.paths.AvatarMask)
	if err != nil {
		return nil, err
	}
	picture, err := r.g.assets.LoadRemote(r.ctx, r.rec.ProfilePicture.URL, "")
	if err != nil {
		return nil, err
	}

	size := cardLayout.Avatar.Size()
	off := r.g.newSurface(size.X, size.Y)
	defer off.Close()
	off.CompositeMaskThenBackground(picture, mask, bg, cardLayout.pictureBox())
	return off.Image(), nil
}

func (r *render) rightPanel(linkQR string) {
	info := r.rec.PlayerInfo
	at := cardLayout.right

	p := at(cardLayout.MainPageTab)
	r.text("Main Page", p.X, p.Y, styleTab)
	p = at(cardLayout.NameCardTab)
	r.text("Namecard", p.X, p.Y, styleTab)

	p = at(cardLayout.AchieveLabel)
	r.text("Achievements", p.X, p.Y, styleSectionLabel)
	p = at(cardLayout.AbyssLabel)
	r.text("Spiral Abyss", p.X, p.Y, styleSectionLabel)

	p = at(cardLayout.Achievement)
	r.text(strconv.Itoa(info.FinishAchievementNum), p.X, p.Y, styleSectionValue)
	p = at(cardLayout.Abyss)
	r.text(abyssProgress(info), p.X, p.Y, styleSectionValue)

	p = at(cardLayout.ShowcaseLabel)
	r.text("Character Showcase", p.X, p.Y, styleShowcase)

	if linkQR != "" {
		r.region("qr", func() error { return r.qrBadge(linkQR) })
	}
	r.showcase()
}

// abyssProgress formats "{floor}-{level}"; missing parts are zero.
func abyssProgress(info source.PlayerInfo) string {
	return fmt.Sprintf("%d-%d", info.TowerFloorIndex, info.TowerLevelIndex)
}

const (
	qrRadius = 10
	qrInset  = 7
)

var qrShadow = imagepkg.Shadow{Color: color.NRGBA{A: 0x66}, Blur: 6, OffsetY: 2}

// qrBadge draws a framed QR code of link in the top right of the right panel.
func (r *render) qrBadge(link string) error {
	box := cardLayout.QRBadge.Add(image.Pt(cardLayout.RightPanelX, 0))
	code, err := imagepkg.GenerateQRImage(link, box.Dx()-2*qrInset)
	if err != nil {
		return err
	}
	fill := imagepkg.NewLinearGradient(
		float64(box.Min.X), float64(box.Min.Y), float64(box.Min.X), float64(box.Max.Y),
		color.White, imagepkg.MustHex("#ECE5D8"))

	r.s.SetShadow(qrShadow)
	r.s.FillRoundedRect(box, qrRadius, fill, &imagepkg.Stroke{Color: bronze, Width: 2})
	r.s.ResetShadow()
	r.s.Blit(code, box.Min.X+qrInset, box.Min.Y+qrInset, 0, 0)
	return nil
}

// showcase draws the first SlotCount entries. Missing entries leave their
// slot empty.
func (r *render) showcase() {
	entries := r.rec.ShowAvatars
	if len(entries) > SlotCount {
		entries = entries[:SlotCount]
	}
	for i, entry := range entries {
		r.region("slot", func() error { return r.slot(i, entry) })
	}
}

// qualityBackground picks the 5-star frame for quality 5 and the 4-star
// frame for every other value.
func (r *render) qualityBackground(quality int) string {
	if quality == 5 {
		return r.paths.Character5Star
	}
	return r.paths.Character4Star
}

// slot loads every asset of one entry before drawing so that a failure
// leaves the slot untouched.
func (r *render) slot(i int, entry source.ShowAvatar) error {
	picture, err := r.g.assets.LoadRemote(r.ctx, entry.URL, "")
	if err != nil {
		return err
	}
	bg, err := r.g.assets.LoadLocal(r.ctx, r.paths.CharacterBackground)
	if err != nil {
		return err
	}
	quality, err := r.g.assets.LoadLocal(r.ctx, r.qualityBackground(entry.Quality))
	if err != nil {
		return err
	}
	var icon image.Image
	if strings.TrimSpace(entry.Element) != "" {
		if icon, err = r.g.assets.ResolveIconFor(r.ctx, entry.Element); err != nil {
			return err
		}
	}

	at := cardLayout.right(cardLayout.Slots[i])
	q := at.Add(slotQualityOffset)
	pic := at.Add(slotPictureOffset)
	r.s.Blit(bg, at.X, at.Y, 0, 0)
	r.s.Blit(quality, q.X, q.Y, 0, 0)
	r.s.Blit(picture, pic.X, pic.Y, slotPictureSize, slotPictureSize)
	if icon != nil {
		ic := at.Add(slotIconOffset)
		r.s.Blit(icon, ic.X, ic.Y, slotIconSize, slotIconSize)
	}
	lv := at.Add(slotLevelOffset)
	r.text("Lv. "+strconv.Itoa(entry.Level), lv.X, lv.Y, styleSlotLevel)
	return nil
}
