package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/matzehuels/svgmcp/pkg/errors"
)

// gradient returns a noisy opaque image so that JPEG quality settings
// produce visibly different output sizes.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 7), uint8(y * 13), uint8((x ^ y) * 31), 0xff})
		}
	}
	return img
}

func TestFormatAttributes(t *testing.T) {
	tests := []struct {
		format Format
		mime   string
		ext    string
		label  string
	}{
		{PNG, "image/png", ".png", "PNG"},
		{JPEG, "image/jpeg", ".jpg", "JPEG"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := tt.format.MIMEType(); got != tt.mime {
				t.Errorf("MIMEType() = %q, want %q", got, tt.mime)
			}
			if got := tt.format.Extension(); got != tt.ext {
				t.Errorf("Extension() = %q, want %q", got, tt.ext)
			}
			if got := tt.format.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
			if !tt.format.Valid() {
				t.Error("Valid() = false")
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"png", PNG, false},
		{"jpeg", JPEG, false},
		{"jpg", JPEG, false},
		{"gif", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	src.SetRGBA(2, 1, color.RGBA{0, 0, 128, 128})

	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatal("EncodePNG() output lacks PNG signature")
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("decoded bounds = %v, want 3x2", b)
	}
	if _, _, _, a := img.At(1, 1).RGBA(); a != 0 {
		t.Errorf("untouched pixel alpha = %d, want 0", a)
	}
	if _, _, _, a := img.At(2, 1).RGBA(); a>>8 != 128 {
		t.Errorf("half transparent pixel alpha = %d, want 128", a>>8)
	}
}

func TestEncodeJPEG(t *testing.T) {
	src := gradient(64, 48)

	data, err := EncodeJPEG(src, DefaultQuality)
	if err != nil {
		t.Fatalf("EncodeJPEG() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}) {
		t.Fatal("EncodeJPEG() output lacks JPEG SOI marker")
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("jpeg.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("decoded bounds = %v, want 64x48", b)
	}
}

func TestEncodeJPEGQualityAffectsSize(t *testing.T) {
	src := gradient(64, 64)

	low, err := EncodeJPEG(src, 1)
	if err != nil {
		t.Fatalf("EncodeJPEG(1) error = %v", err)
	}
	high, err := EncodeJPEG(src, 100)
	if err != nil {
		t.Fatalf("EncodeJPEG(100) error = %v", err)
	}
	if len(low) >= len(high) {
		t.Errorf("len(q=1) = %d, len(q=100) = %d, want q=1 smaller", len(low), len(high))
	}
}

func TestEncodeJPEGQualityBounds(t *testing.T) {
	src := gradient(8, 8)

	tests := []struct {
		quality int
		wantErr bool
	}{
		{0, false},
		{100, false},
		{-1, true},
		{101, true},
	}

	for _, tt := range tests {
		_, err := EncodeJPEG(src, tt.quality)
		if (err != nil) != tt.wantErr {
			t.Errorf("EncodeJPEG(q=%d) error = %v, wantErr %v", tt.quality, err, tt.wantErr)
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidParams) {
			t.Errorf("EncodeJPEG(q=%d) code = %v, want INVALID_PARAMS", tt.quality, errors.GetCode(err))
		}
	}
}

func TestDropAlpha(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	// Pixel 0 is fully transparent; pixel 1 is half-transparent white
	// (premultiplied, so stored as 128,128,128,128).
	src.SetRGBA(1, 0, color.RGBA{128, 128, 128, 128})

	dst := DropAlpha(src)

	if c := dst.RGBAAt(0, 0); c != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("transparent pixel = %v, want opaque black", c)
	}
	if c := dst.RGBAAt(1, 0); c != (color.RGBA{128, 128, 128, 255}) {
		t.Errorf("half transparent pixel = %v, want stored RGB with alpha 255", c)
	}
	if c := src.RGBAAt(1, 0); c.A != 128 {
		t.Error("DropAlpha() modified its input")
	}
}

func TestEncodeDispatch(t *testing.T) {
	src := gradient(4, 4)

	if _, err := Encode(src, PNG, 0); err != nil {
		t.Errorf("Encode(PNG) error = %v", err)
	}
	if _, err := Encode(src, JPEG, 50); err != nil {
		t.Errorf("Encode(JPEG) error = %v", err)
	}
	if _, err := Encode(src, Format("bmp"), 0); !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Errorf("Encode(bmp) error = %v, want INVALID_PARAMS", err)
	}
}
