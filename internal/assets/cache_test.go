package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/image/font/gofont/gobold"

	imagepkg "github.com/youruser/profilecard/internal/image"
	"github.com/youruser/profilecard/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.InitWithWriter(io.Discard)
	os.Exit(m.Run())
}

func pngBytes(w, h int, c color.Color) []byte {
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

// fixtureFS holds a tiny PNG for every default path plus a real font.
func fixtureFS() fstest.MapFS {
	fsys := fstest.MapFS{}
	for i, p := range DefaultPaths().Images() {
		fsys[p] = &fstest.MapFile{Data: pngBytes(2+i, 2, color.NRGBA{R: uint8(i * 10), A: 0xff})}
	}
	fsys[DefaultPaths().Font] = &fstest.MapFile{Data: gobold.TTF}
	return fsys
}

// countingDecoder wraps imagepkg.Decode and counts calls.
func countingDecoder(n *atomic.Int32) DecodeFunc {
	return func(r io.Reader) (image.Image, error) {
		n.Add(1)
		return imagepkg.Decode(r)
	}
}

// gatedDecoder blocks its first call until release is closed.
func gatedDecoder(n *atomic.Int32, started chan<- struct{}, release <-chan struct{}) DecodeFunc {
	return func(r io.Reader) (image.Image, error) {
		if n.Add(1) == 1 {
			close(started)
			<-release
		}
		return imagepkg.Decode(r)
	}
}

func TestLoadLocal(t *testing.T) {
	Convey("Given a cache over the fixture assets", t, func() {
		ctx := context.Background()
		var decodes atomic.Int32
		c := New(fixtureFS(), WithDecoder(countingDecoder(&decodes)))
		bg := c.Paths().ProfileBackground

		Convey("When the same path is requested twice", func() {
			first, err := c.LoadLocal(ctx, bg)
			So(err, ShouldBeNil)
			second, err := c.LoadLocal(ctx, bg)
			So(err, ShouldBeNil)

			Convey("Then the second call is a cache hit returning the same image", func() {
				So(first == second, ShouldBeTrue)
				So(int(decodes.Load()), ShouldEqual, 1)
				So(c.Len(), ShouldEqual, 1)
			})

			Convey("And after Clear the next request decodes again", func() {
				c.Clear()
				So(c.Len(), ShouldEqual, 0)
				third, err := c.LoadLocal(ctx, bg)
				So(err, ShouldBeNil)
				So(third == first, ShouldBeFalse)
				So(int(decodes.Load()), ShouldEqual, 2)
			})
		})

		Convey("When Clear runs while a decode is in flight", func() {
			var n atomic.Int32
			started, release := make(chan struct{}), make(chan struct{})
			c := New(fixtureFS(), WithDecoder(gatedDecoder(&n, started, release)))

			done := make(chan image.Image)
			go func() {
				img, _ := c.LoadLocal(ctx, bg)
				done <- img
			}()
			<-started
			c.Clear()

			// A request after Clear must not join the stale decode.
			fresh, err := c.LoadLocal(ctx, bg)
			So(err, ShouldBeNil)
			close(release)
			stale := <-done

			Convey("Then the stale image is not cached and the fresh one is", func() {
				So(stale, ShouldNotBeNil)
				So(fresh == stale, ShouldBeFalse)
				So(int(n.Load()), ShouldEqual, 2)
				So(c.Len(), ShouldEqual, 1)
				again, _ := c.LoadLocal(ctx, bg)
				So(again == fresh, ShouldBeTrue)
				So(int(n.Load()), ShouldEqual, 2)
			})
		})

		Convey("When Clear runs before an in-flight decode finishes", func() {
			var n atomic.Int32
			started, release := make(chan struct{}), make(chan struct{})
			c := New(fixtureFS(), WithDecoder(gatedDecoder(&n, started, release)))

			done := make(chan struct{})
			go func() {
				_, _ = c.LoadLocal(ctx, bg)
				close(done)
			}()
			<-started
			c.Clear()
			close(release)
			<-done

			Convey("Then the cache stays empty and the next request decodes again", func() {
				So(c.Len(), ShouldEqual, 0)
				_, err := c.LoadLocal(ctx, bg)
				So(err, ShouldBeNil)
				So(int(n.Load()), ShouldEqual, 2)
				So(c.Len(), ShouldEqual, 1)
			})
		})

		Convey("When many goroutines miss on the same path at once", func() {
			var wg sync.WaitGroup
			results := make([]image.Image, 32)
			for i := range results {
				i := i
				wg.Add(1)
				go func() {
					defer wg.Done()
					results[i], _ = c.LoadLocal(ctx, bg)
				}()
			}
			wg.Wait()

			Convey("Then every caller gets an image and the cache holds one entry", func() {
				for _, img := range results {
					So(img, ShouldNotBeNil)
				}
				So(c.Len(), ShouldEqual, 1)
				So(int(decodes.Load()), ShouldBeLessThanOrEqualTo, len(results))
			})
		})

		Convey("When the path does not exist", func() {
			_, err := c.LoadLocal(ctx, "profile/missing.png")

			Convey("Then an AssetLoadError is returned and nothing is cached", func() {
				var le *AssetLoadError
				So(errors.As(err, &le), ShouldBeTrue)
				So(le.Path, ShouldEqual, "profile/missing.png")
				So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the file is not an image", func() {
			fsys := fixtureFS()
			fsys["profile/bad.png"] = &fstest.MapFile{Data: []byte("not a png")}
			c := New(fsys)

			_, err := c.LoadLocal(ctx, "profile/bad.png")
			_, again := c.LoadLocal(ctx, "profile/bad.png")

			Convey("Then decoding fails every time", func() {
				var le *AssetLoadError
				So(errors.As(err, &le), ShouldBeTrue)
				So(again, ShouldNotBeNil)
				So(c.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestLoadRemote(t *testing.T) {
	Convey("Given an image server", t, func() {
		ctx := context.Background()
		remote := pngBytes(5, 4, color.NRGBA{G: 0xff, A: 0xff})
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if r.URL.Path != "/card.png" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write(remote)
		}))
		defer srv.Close()

		c := New(fixtureFS(), WithHTTPClient(srv.Client()), WithRemoteRate(1000, 100))

		Convey("A reachable URL is decoded and never cached", func() {
			a, err := c.LoadRemote(ctx, srv.URL+"/card.png", "")
			So(err, ShouldBeNil)
			So(a.Bounds().Size(), ShouldResemble, image.Pt(5, 4))
			_, err = c.LoadRemote(ctx, srv.URL+"/card.png", "")
			So(err, ShouldBeNil)
			So(int(hits.Load()), ShouldEqual, 2)
			So(c.Len(), ShouldEqual, 0)
		})

		Convey("A failing URL without fallback returns a RemoteAssetError", func() {
			_, err := c.LoadRemote(ctx, srv.URL+"/gone.png", "")
			var re *RemoteAssetError
			So(errors.As(err, &re), ShouldBeTrue)
			So(re.URL, ShouldEqual, srv.URL+"/gone.png")
		})

		Convey("A failing URL with a fallback loads the local asset", func() {
			fallback := c.Paths().Avatar
			img, err := c.LoadRemote(ctx, srv.URL+"/gone.png", fallback)
			So(err, ShouldBeNil)
			local, _ := c.LoadLocal(ctx, fallback)
			So(img == local, ShouldBeTrue)
		})

		Convey("An empty URL fails without a request", func() {
			_, err := c.LoadRemote(ctx, "", "")
			So(errors.Is(err, ErrEmptyURL), ShouldBeTrue)
			So(int(hits.Load()), ShouldEqual, 0)
		})
	})
}

func TestResolveIconFor(t *testing.T) {
	Convey("Given a cache", t, func() {
		ctx := context.Background()
		c := New(fixtureFS())
		icons := c.Paths().ElementIcons

		Convey("Both naming schemes resolve to the same canonical element", func() {
			pairs := [][2]string{
				{"Fire", "Pyro"}, {"Water", "Hydro"}, {"Grass", "Dendro"},
				{"Electric", "Electro"}, {"Wind", "Anemo"}, {"Rock", "Geo"}, {"Ice", "Cryo"},
			}
			for _, p := range pairs {
				So(NormalizeElement(p[0]), ShouldEqual, NormalizeElement(p[1]))
				a, err := c.ResolveIconFor(ctx, p[0])
				So(err, ShouldBeNil)
				b, _ := c.ResolveIconFor(ctx, p[1])
				So(a == b, ShouldBeTrue)
			}
		})

		Convey("Case and whitespace are ignored", func() {
			So(NormalizeElement("  anemo "), ShouldEqual, Wind)
			So(NormalizeElement("CRYO"), ShouldEqual, Ice)
		})

		Convey("Unknown categories resolve to the default element's icon", func() {
			for _, label := range []string{"", "Physical", "???", "Quantum"} {
				So(NormalizeElement(label), ShouldEqual, DefaultElement)
				img, err := c.ResolveIconFor(ctx, label)
				So(err, ShouldBeNil)
				want, _ := c.LoadLocal(ctx, icons[DefaultElement])
				So(img == want, ShouldBeTrue)
			}
		})

		Convey("A missing default icon is the only failure", func() {
			fsys := fixtureFS()
			delete(fsys, icons[DefaultElement])
			c := New(fsys)
			_, err := c.ResolveIconFor(ctx, "Unknown")
			var le *AssetLoadError
			So(errors.As(err, &le), ShouldBeTrue)
		})
	})
}

func TestRegisterDisplayFont(t *testing.T) {
	Convey("Given the bundled font", t, func() {
		ctx := context.Background()
		c := New(fixtureFS())
		So(c.FontRegistered(), ShouldBeFalse)

		Convey("Registration happens once, even when raced", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					c.RegisterDisplayFont(ctx)
				}()
			}
			wg.Wait()
			So(c.FontRegistered(), ShouldBeTrue)
			So(c.Fonts().Has(c.FontFamily()), ShouldBeTrue)
		})

		Convey("Clear does not forget the font", func() {
			c.RegisterDisplayFont(ctx)
			c.Clear()
			So(c.FontRegistered(), ShouldBeTrue)
		})
	})

	Convey("Given a missing font file", t, func() {
		fsys := fixtureFS()
		delete(fsys, DefaultPaths().Font)
		c := New(fsys, WithFontFamily("Display"))

		Convey("Registration fails softly and is not retried", func() {
			c.RegisterDisplayFont(context.Background())
			So(c.FontRegistered(), ShouldBeFalse)
			fsys[DefaultPaths().Font] = &fstest.MapFile{Data: gobold.TTF}
			c.RegisterDisplayFont(context.Background())
			So(c.FontRegistered(), ShouldBeFalse)
			So(c.Fonts().Has("Display"), ShouldBeFalse)
		})
	})
}

func TestPathsAndWarm(t *testing.T) {
	Convey("Given a cache", t, func() {
		c := New(fixtureFS())

		Convey("Paths returns an independent copy", func() {
			p := c.Paths()
			p.ProfileBackground = "hacked.png"
			p.ElementIcons[Fire] = "hacked.png"
			So(c.Paths().ProfileBackground, ShouldEqual, DefaultPaths().ProfileBackground)
			So(c.Paths().ElementIcons[Fire], ShouldEqual, DefaultPaths().ElementIcons[Fire])
		})

		Convey("Warm decodes every static image", func() {
			So(c.Warm(context.Background()), ShouldBeNil)
			So(c.Len(), ShouldEqual, len(DefaultPaths().Images()))
		})

		Convey("Warm reports a missing asset", func() {
			err := c.Warm(context.Background(), "profile/none.png")
			var le *AssetLoadError
			So(errors.As(err, &le), ShouldBeTrue)
		})
	})
}
