package profile

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/youruser/profilecard/internal/assets"
	"github.com/youruser/profilecard/internal/source"
	"github.com/youruser/profilecard/internal/store"
	"github.com/youruser/profilecard/pkg/logger"
)

func solidPNG(w, h int, c color.Color) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

const recordJSON = `{
  "playerInfo": {"uid": "800000001", "nickname": "Aether", "level": 58, "worldLevel": 8,
    "signature": "a signature long enough that it has to wrap across more than one line of the card",
    "finishAchievementNum": 700, "towerFloorIndex": 12, "towerLevelIndex": 3},
  "profilePicture": {"id": 1, "url": "%[1]s/img/pp.png"},
  "nameCard": {"id": 2, "url": "%[1]s/img/missing.png"},
  "showAvatars": [
    {"avatarId": 1, "url": "%[1]s/img/c.png", "quality": 5, "level": 90, "element": "Electro"},
    {"avatarId": 2, "url": "%[1]s/img/c.png", "quality": 4, "level": 80}
  ]
}`

func TestRenderEndToEnd(t *testing.T) {
	Convey("Given real assets, surfaces and a record service", t, func() {
		fsys := fstest.MapFS{}
		for _, p := range assets.DefaultPaths().Images() {
			fsys[p] = &fstest.MapFile{Data: solidPNG(8, 8, color.NRGBA{R: 0x40, G: 0x80, B: 0xc0, A: 0xff})}
		}
		fsys[assets.DefaultPaths().Font] = &fstest.MapFile{Data: goregular.TTF}

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/uid/800000001":
				_, _ = w.Write([]byte(fmt.Sprintf(recordJSON, srv.URL)))
			case "/img/pp.png", "/img/c.png":
				_, _ = w.Write(solidPNG(16, 16, color.NRGBA{G: 0xff, A: 0xff}))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		cache := assets.New(fsys, assets.WithHTTPClient(srv.Client()), assets.WithLogger(logger.Nop()))
		src := source.NewHTTPSource(srv.URL+"/uid", srv.Client(), logger.Nop())
		dir := t.TempDir()
		gen := New(cache, src, WithWriter(store.NewFileWriter(dir)), WithLogger(logger.Nop()))

		Convey("The font is registered up front", func() {
			So(cache.FontRegistered(), ShouldBeTrue)
		})

		Convey("A render with a broken banner still yields a full-size PNG", func() {
			res, err := gen.Generate(context.Background(), "800000001", Options{})
			So(err, ShouldBeNil)
			img, err := png.Decode(bytes.NewReader(res.Buffer))
			So(err, ShouldBeNil)
			So(img.Bounds().Size(), ShouldResemble, image.Pt(CanvasWidth, CanvasHeight))

			_, _, _, a := img.At(5, 5).RGBA()
			So(int(a), ShouldEqual, 0xffff)
		})

		Convey("Path output lands on disk", func() {
			res, err := gen.Generate(context.Background(), "800000001",
				Options{Output: OutputPath, OutputPath: "cards/800000001.jpg", Format: "jpeg", Quality: 85, LinkQR: "https://example.com"})
			So(err, ShouldBeNil)
			data, err := os.ReadFile(filepath.Join(dir, "cards", "800000001.jpg"))
			So(err, ShouldBeNil)
			So(res.Path, ShouldEqual, "cards/800000001.jpg")
			So(data[:2], ShouldResemble, []byte{0xff, 0xd8})
		})
	})
}
