package scanner

import "github.com/makiuchi-d/gozxing"

// Format identifies a barcode symbology.
type Format int

const (
	FormatQRCode Format = iota
	FormatAztec
	FormatDataMatrix
	FormatPDF417
	FormatCode39
	FormatCode93
	FormatCode128
	FormatITF
	FormatCodabar
	FormatEAN13
	FormatEAN8
	FormatUPCA
	FormatUPCE
	FormatRSS14
	FormatRSSExpanded
)

// Catalog returns the enabled symbologies, 2D first, in a fixed order.
// MS1 Plessey is not enabled.
func Catalog() []Format {
	return []Format{
		// 2D
		FormatQRCode,
		FormatAztec,
		FormatDataMatrix,
		FormatPDF417,

		// 1D
		FormatCode39,
		FormatCode93,
		FormatCode128,
		FormatITF,
		FormatCodabar,

		FormatEAN13,
		FormatEAN8,
		FormatUPCA,
		FormatUPCE,

		// GS1 DataBar
		FormatRSS14,
		FormatRSSExpanded,
	}
}

var formatInfo = map[Format]struct {
	id    string
	label string
}{
	FormatQRCode:      {"QR_CODE", "QR"},
	FormatAztec:       {"AZTEC", "Aztec"},
	FormatDataMatrix:  {"DATA_MATRIX", "Data Matrix"},
	FormatPDF417:      {"PDF_417", "PDF417"},
	FormatCode39:      {"CODE_39", "Code 39"},
	FormatCode93:      {"CODE_93", "Code 93"},
	FormatCode128:     {"CODE_128", "Code 128"},
	FormatITF:         {"ITF", "ITF"},
	FormatCodabar:     {"CODABAR", "Codabar"},
	FormatEAN13:       {"EAN_13", "EAN-13"},
	FormatEAN8:        {"EAN_8", "EAN-8"},
	FormatUPCA:        {"UPC_A", "UPC-A"},
	FormatUPCE:        {"UPC_E", "UPC-E"},
	FormatRSS14:       {"RSS_14", "GS1 DataBar (RSS-14)"},
	FormatRSSExpanded: {"RSS_EXPANDED", "GS1 DataBar Expanded"},
}

// String returns the symbology identifier, e.g. "QR_CODE".
func (f Format) String() string {
	if info, ok := formatInfo[f]; ok {
		return info.id
	}
	return "UNKNOWN"
}

// Label returns a human-readable symbology name.
func (f Format) Label() string {
	if info, ok := formatInfo[f]; ok {
		return info.label
	}
	return "Unknown"
}

var gozxingFormats = map[gozxing.BarcodeFormat]Format{
	gozxing.BarcodeFormat_QR_CODE:      FormatQRCode,
	gozxing.BarcodeFormat_AZTEC:        FormatAztec,
	gozxing.BarcodeFormat_DATA_MATRIX:  FormatDataMatrix,
	gozxing.BarcodeFormat_PDF_417:      FormatPDF417,
	gozxing.BarcodeFormat_CODE_39:      FormatCode39,
	gozxing.BarcodeFormat_CODE_93:      FormatCode93,
	gozxing.BarcodeFormat_CODE_128:     FormatCode128,
	gozxing.BarcodeFormat_ITF:          FormatITF,
	gozxing.BarcodeFormat_CODABAR:      FormatCodabar,
	gozxing.BarcodeFormat_EAN_13:       FormatEAN13,
	gozxing.BarcodeFormat_EAN_8:        FormatEAN8,
	gozxing.BarcodeFormat_UPC_A:        FormatUPCA,
	gozxing.BarcodeFormat_UPC_E:        FormatUPCE,
	gozxing.BarcodeFormat_RSS_14:       FormatRSS14,
	gozxing.BarcodeFormat_RSS_EXPANDED: FormatRSSExpanded,
}

// FromGozxing maps a gozxing format to a catalog format.
func FromGozxing(bf gozxing.BarcodeFormat) (Format, bool) {
	f, ok := gozxingFormats[bf]
	return f, ok
}

// ToGozxing returns the gozxing format for f.
func (f Format) ToGozxing() (gozxing.BarcodeFormat, bool) {
	for bf, cf := range gozxingFormats {
		if cf == f {
			return bf, true
		}
	}
	return 0, false
}

// Labels returns the human-readable names of formats, in order.
func Labels(formats []Format) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = f.Label()
	}
	return out
}
