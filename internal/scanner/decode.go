package scanner

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/oned/rss"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Decoded is a single successful frame decode.
type Decoded struct {
	Text   string
	Format Format
}

// ResultObject returns the raw result shape reported through SuccessFunc.
func (d Decoded) ResultObject() map[string]any {
	return map[string]any{
		"result": map[string]any{
			"text": d.Text,
			"format": map[string]any{
				"formatName": d.Format.String(),
				"format":     int(d.Format),
			},
		},
	}
}

type formatReader struct {
	formats []Format
	reader  gozxing.Reader
}

// readerFactories lists the standalone gozxing readers this backend can run.
// UPC/EAN formats share one reader; see upceanFormats.
var readerFactories = map[Format]func() gozxing.Reader{
	FormatQRCode:     func() gozxing.Reader { return qrcode.NewQRCodeReader() },
	FormatAztec:      func() gozxing.Reader { return aztec.NewAztecReader() },
	FormatDataMatrix: func() gozxing.Reader { return datamatrix.NewDataMatrixReader() },
	FormatCode39:     func() gozxing.Reader { return oned.NewCode39Reader() },
	FormatCode93:     func() gozxing.Reader { return oned.NewCode93Reader() },
	FormatCode128:    func() gozxing.Reader { return oned.NewCode128Reader() },
	FormatITF:        func() gozxing.Reader { return oned.NewITFReader() },
	FormatCodabar:    func() gozxing.Reader { return oned.NewCodaBarReader() },
	FormatRSS14:      func() gozxing.Reader { return rss.NewRSS14Reader() },
}

// upceanFormats are decoded by a single multi-format reader so a UPC-A code
// is not reported as a 0-prefixed EAN-13.
var upceanFormats = map[Format]bool{
	FormatEAN13: true,
	FormatEAN8:  true,
	FormatUPCA:  true,
	FormatUPCE:  true,
}

// readerOrder is the order readers run in: 2D first, then UPC/EAN, then
// the remaining 1D symbologies.
var readerOrder = []Format{
	FormatQRCode,
	FormatAztec,
	FormatDataMatrix,
	FormatEAN13, // UPC/EAN group
	FormatCode39,
	FormatCode93,
	FormatCode128,
	FormatITF,
	FormatCodabar,
	FormatRSS14,
}

// FrameDecoder runs the gozxing readers for a format catalog over frames.
type FrameDecoder struct {
	readers     []formatReader
	supported   []Format
	hints       map[gozxing.DecodeHintType]interface{}
	disableFlip bool
	region      func(w, h int) Region
}

// NewFrameDecoder builds readers for every catalog format gozxing can decode.
// Formats without a reader are logged and skipped.
func NewFrameDecoder(formats []Format, cfg DecoderConfig) *FrameDecoder {
	d := &FrameDecoder{
		disableFlip: cfg.DisableFlip,
		region:      cfg.ScanRegion,
	}

	enabled := make(map[Format]bool, len(formats))
	var (
		possible []gozxing.BarcodeFormat
		upcean   []Format
	)
	for _, f := range formats {
		if _, standalone := readerFactories[f]; !standalone && !upceanFormats[f] {
			slog.Info("decoder: format has no reader in this backend", "format", f.String())
			continue
		}
		enabled[f] = true
		d.supported = append(d.supported, f)
		if upceanFormats[f] {
			upcean = append(upcean, f)
		}
		if bf, ok := f.ToGozxing(); ok {
			possible = append(possible, bf)
		}
	}

	d.hints = map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_POSSIBLE_FORMATS: possible,
		gozxing.DecodeHintType_TRY_HARDER:       true,
	}

	for _, f := range readerOrder {
		switch {
		case upceanFormats[f]:
			if len(upcean) > 0 {
				d.readers = append(d.readers, formatReader{
					formats: upcean,
					reader:  oned.NewMultiFormatUPCEANReader(d.hints),
				})
			}
		case enabled[f]:
			d.readers = append(d.readers, formatReader{
				formats: []Format{f},
				reader:  readerFactories[f](),
			})
		}
	}
	return d
}

// Unreadable returns the formats the camera backend has no reader for.
func Unreadable(formats []Format) []Format {
	var out []Format
	for _, f := range formats {
		if _, ok := readerFactories[f]; !ok && !upceanFormats[f] {
			out = append(out, f)
		}
	}
	return out
}

// Formats returns the formats this decoder will actually try.
func (d *FrameDecoder) Formats() []Format {
	return append([]Format(nil), d.supported...)
}

// Decode crops the scan region out of img and tries every reader, then the
// mirrored crop unless flipping is disabled.
func (d *FrameDecoder) Decode(img image.Image) (Decoded, error) {
	cropped := d.crop(img)

	if res, err := d.decodeOnce(cropped); err == nil {
		return res, nil
	}
	if d.disableFlip {
		return Decoded{}, ErrNoCode
	}
	return d.decodeOnce(mirror(cropped))
}

func (d *FrameDecoder) decodeOnce(img image.Image) (Decoded, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return Decoded{}, fmt.Errorf("binarize frame: %w", err)
	}

	for _, fr := range d.readers {
		result, err := fr.reader.Decode(bmp, d.hints)
		if err != nil || result == nil {
			continue
		}
		format := fr.formats[0]
		if mapped, ok := FromGozxing(result.GetBarcodeFormat()); ok {
			format = mapped
		}
		return Decoded{Text: result.GetText(), Format: format}, nil
	}
	return Decoded{}, ErrNoCode
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func (d *FrameDecoder) crop(img image.Image) image.Image {
	if d.region == nil {
		return img
	}
	b := img.Bounds()
	r := d.region(b.Dx(), b.Dy())
	if r.Width <= 0 || r.Height <= 0 {
		return img
	}
	si, ok := img.(subImager)
	if !ok {
		return img
	}
	x, y := r.Offset(b.Dx(), b.Dy())
	rect := image.Rect(b.Min.X+x, b.Min.Y+y, b.Min.X+x+r.Width, b.Min.Y+y+r.Height)
	return si.SubImage(rect)
}

func mirror(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(b.Max.X-1-x, y-b.Min.Y, img.At(x, y))
		}
	}
	return out
}

// RGBAFrame wraps raw RGBA bytes as an image without copying.
func RGBAFrame(data []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(data) < width*height*4 {
		return nil, fmt.Errorf("frame size mismatch: %d bytes for %dx%d", len(data), width, height)
	}
	return &image.RGBA{
		Pix:    data,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}
