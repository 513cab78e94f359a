package scanner

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// renderMatrix draws m onto a white canvas with margin pixels on each side.
func renderMatrix(m *gozxing.BitMatrix, margin int) *image.RGBA {
	w, h := m.GetWidth(), m.GetHeight()
	img := image.NewRGBA(image.Rect(0, 0, w+2*margin, h+2*margin))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.Get(x, y) {
				img.SetRGBA(x+margin, y+margin, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

func encode(t *testing.T, w gozxing.Writer, text string, format gozxing.BarcodeFormat, width, height int) *image.RGBA {
	t.Helper()
	m, err := w.Encode(text, format, width, height, nil)
	if err != nil {
		t.Fatalf("encode %v %q: %v", format, text, err)
	}
	return renderMatrix(m, 20)
}

func qrImage(t *testing.T, text string, size int) *image.RGBA {
	t.Helper()
	return encode(t, qrcode.NewQRCodeWriter(), text, gozxing.BarcodeFormat_QR_CODE, size, size)
}

func loadPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestFrameDecoderQR(t *testing.T) {
	d := NewFrameDecoder(Catalog(), DefaultDecoderConfig())

	got, err := d.Decode(qrImage(t, "https://example.com/", 240))
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if got.Text != "https://example.com/" || got.Format != FormatQRCode {
		t.Errorf("Decode() = %+v", got)
	}

	res := got.ResultObject()
	inner := res["result"].(map[string]any)["format"].(map[string]any)
	if inner["formatName"] != "QR_CODE" {
		t.Errorf("result object format = %v", inner["formatName"])
	}
}

func TestFrameDecoderMirrored(t *testing.T) {
	d := NewFrameDecoder([]Format{FormatQRCode}, DefaultDecoderConfig())

	got, err := d.Decode(mirror(qrImage(t, "MIRROR-1", 240)))
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if got.Text != "MIRROR-1" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestFrameDecoderBlankFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	for _, flip := range []bool{false, true} {
		cfg := DefaultDecoderConfig()
		cfg.DisableFlip = flip
		_, err := NewFrameDecoder(Catalog(), cfg).Decode(img)
		if !errors.Is(err, ErrNoCode) {
			t.Errorf("disableFlip=%v: Decode() = %v, want ErrNoCode", flip, err)
		}
	}
}

func TestFrameDecoderFormats(t *testing.T) {
	got := NewFrameDecoder(Catalog(), DefaultDecoderConfig()).Formats()

	var want []Format
	for _, f := range Catalog() {
		if f != FormatPDF417 && f != FormatRSSExpanded {
			want = append(want, f)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Formats()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	d := NewFrameDecoder([]Format{FormatPDF417, FormatUPCA, FormatRSSExpanded}, DefaultDecoderConfig())
	if got := d.Formats(); len(got) != 1 || got[0] != FormatUPCA {
		t.Errorf("Formats() = %v, want [UPC_A]", got)
	}
}

func TestUnreadable(t *testing.T) {
	got := Unreadable(Catalog())
	if len(got) != 2 || got[0] != FormatPDF417 || got[1] != FormatRSSExpanded {
		t.Errorf("Unreadable() = %v, want [PDF_417 RSS_EXPANDED]", got)
	}
}

func TestFrameDecoderSymbologies(t *testing.T) {
	tests := []struct {
		name   string
		img    func(t *testing.T) image.Image
		text   string
		format Format
	}{
		{"qr", func(t *testing.T) image.Image {
			return qrImage(t, "https://example.com/", 240)
		}, "https://example.com/", FormatQRCode},
		{"data matrix", func(t *testing.T) image.Image {
			return encode(t, datamatrix.NewDataMatrixWriter(), "LOT:24A117", gozxing.BarcodeFormat_DATA_MATRIX, 160, 160)
		}, "LOT:24A117", FormatDataMatrix},
		{"aztec", func(t *testing.T) image.Image {
			return loadPNG(t, "testdata/aztec-hello.png")
		}, "hello", FormatAztec},
		{"code 39", func(t *testing.T) image.Image {
			return encode(t, oned.NewCode39Writer(), "CODE39-TEST", gozxing.BarcodeFormat_CODE_39, 480, 120)
		}, "CODE39-TEST", FormatCode39},
		{"code 93", func(t *testing.T) image.Image {
			return encode(t, oned.NewCode93Writer(), "CODE93", gozxing.BarcodeFormat_CODE_93, 400, 120)
		}, "CODE93", FormatCode93},
		{"code 128", func(t *testing.T) image.Image {
			return encode(t, oned.NewCode128Writer(), "SHIP-0001-7734", gozxing.BarcodeFormat_CODE_128, 480, 120)
		}, "SHIP-0001-7734", FormatCode128},
		{"itf", func(t *testing.T) image.Image {
			return encode(t, oned.NewITFWriter(), "00012345678905", gozxing.BarcodeFormat_ITF, 480, 120)
		}, "00012345678905", FormatITF},
		{"codabar", func(t *testing.T) image.Image {
			return encode(t, oned.NewCodaBarWriter(), "A40156B", gozxing.BarcodeFormat_CODABAR, 400, 120)
		}, "40156", FormatCodabar},
		{"ean-13", func(t *testing.T) image.Image {
			return encode(t, oned.NewEAN13Writer(), "9780140449136", gozxing.BarcodeFormat_EAN_13, 400, 120)
		}, "9780140449136", FormatEAN13},
		{"ean-8", func(t *testing.T) image.Image {
			return encode(t, oned.NewEAN8Writer(), "96385074", gozxing.BarcodeFormat_EAN_8, 320, 120)
		}, "96385074", FormatEAN8},
		{"upc-a", func(t *testing.T) image.Image {
			return encode(t, oned.NewUPCAWriter(), "036000291452", gozxing.BarcodeFormat_UPC_A, 400, 120)
		}, "036000291452", FormatUPCA},
		{"upc-e", func(t *testing.T) image.Image {
			return encode(t, oned.NewUPCEWriter(), "01234565", gozxing.BarcodeFormat_UPC_E, 320, 120)
		}, "01234565", FormatUPCE},
	}

	d := NewFrameDecoder(Catalog(), DefaultDecoderConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Decode(tt.img(t))
			if err != nil {
				t.Fatalf("Decode() = %v", err)
			}
			if got.Text != tt.text || got.Format != tt.format {
				t.Errorf("Decode() = %q %s, want %q %s", got.Text, got.Format, tt.text, tt.format)
			}
		})
	}
}

func TestCropUsesScanRegion(t *testing.T) {
	d := NewFrameDecoder(nil, DefaultDecoderConfig())
	img := image.NewRGBA(image.Rect(0, 0, 1920, 1080))

	b := d.crop(img).Bounds()
	if b.Dx() != 1880 || b.Dy() != 1058 || b.Min.X != 20 || b.Min.Y != 11 {
		t.Errorf("crop bounds = %v", b)
	}
}

func TestRGBAFrame(t *testing.T) {
	if _, err := RGBAFrame(make([]byte, 10), 4, 4); err == nil {
		t.Error("RGBAFrame accepted a short buffer")
	}
	if _, err := RGBAFrame(nil, 0, 0); err == nil {
		t.Error("RGBAFrame accepted zero dimensions")
	}

	img, err := RGBAFrame(make([]byte, 4*3*4), 4, 3)
	if err != nil {
		t.Fatalf("RGBAFrame() = %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 || img.Stride != 16 {
		t.Errorf("frame = %v stride %d", img.Bounds(), img.Stride)
	}
}
