package render

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

func TestWritePPM(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	fb.SetPixel(0, 0, Color{1, 0, 0.5})
	fb.SetPixel(1, 0, Color{2, -1, 0.999})

	var buf bytes.Buffer
	if err := fb.WritePPM(&buf); err != nil {
		t.Fatalf("WritePPM: %v", err)
	}

	want := append([]byte("P6\n2 1\n255\n"), 255, 0, 127, 255, 0, 254)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("WritePPM = %v, want %v", buf.Bytes(), want)
	}
}

func TestColorBytes(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want [3]byte
	}{
		{"black", ColorBlack, [3]byte{0, 0, 0}},
		{"white", ColorWhite, [3]byte{255, 255, 255}},
		{"truncates", Color{0.5, 0.25, 0.999}, [3]byte{127, 63, 254}},
		{"clamps high", Color{7, 1.0001, 1}, [3]byte{255, 255, 255}},
		{"clamps low", Color{-3, -0.0001, 0}, [3]byte{0, 0, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Bytes(); got != tc.want {
				t.Errorf("Bytes() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSetPixelClips(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		fb.SetPixel(p[0], p[1], ColorRed)
	}
	for i, c := range fb.Pixels {
		if c != ColorBlack {
			t.Fatalf("pixel %d written by out of bounds SetPixel", i)
		}
	}
	if got := fb.GetPixel(9, 9); got != ColorBlack {
		t.Errorf("out of bounds GetPixel = %v, want black", got)
	}
}

func TestEncodeFormats(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Clear(ColorBlue)
	fb.SetPixel(1, 1, ColorYellow)

	t.Run("png", func(t *testing.T) {
		var buf bytes.Buffer
		if err := fb.Encode(&buf, "png"); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatalf("png.Decode: %v", err)
		}
		r, g, b, _ := img.At(1, 1).RGBA()
		if r>>8 != 255 || g>>8 != 255 || b>>8 != 0 {
			t.Errorf("pixel (1,1) = %d %d %d, want yellow", r>>8, g>>8, b>>8)
		}
	})

	t.Run("bmp", func(t *testing.T) {
		var buf bytes.Buffer
		if err := fb.Encode(&buf, "BMP"); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		img, err := bmp.Decode(&buf)
		if err != nil {
			t.Fatalf("bmp.Decode: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
			t.Errorf("bounds = %v, want 3x2", b)
		}
	})

	t.Run("tiff", func(t *testing.T) {
		var buf bytes.Buffer
		if err := fb.Encode(&buf, "tiff"); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if buf.Len() == 0 {
			t.Error("empty tiff output")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		err := fb.Encode(&bytes.Buffer{}, "gif")
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("err = %v, want ErrUnknownFormat", err)
		}
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	fb := NewFramebuffer(2, 2)
	fb.Clear(ColorWhite)

	path := filepath.Join(dir, "out.ppm")
	if err := fb.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "P6\n2 2\n255\n") {
		t.Errorf("unexpected header %q", data[:min(len(data), 12)])
	}

	bad := filepath.Join(dir, "out.xyz")
	if err := fb.Save(bad); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("Save created a file for an unknown format")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff0000", ColorRed, false},
		{"#000000", ColorBlack, false},
		{"#ffffff", ColorWhite, false},
		{"nope", Color{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if !got.ApproxEqual(tc.want, 1e-9) {
				t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	if got := (Color{1, 0.5, 2}).Hex(); got != "#ff80ff" {
		t.Errorf("Hex() = %q, want #ff80ff", got)
	}
}

func TestDownsample(t *testing.T) {
	fb := NewFramebuffer(8, 4)
	fb.SetPixel(4, 2, ColorRed)

	small := fb.Downsample(4, 4)
	if small.Width != 4 || small.Height != 2 {
		t.Fatalf("size = %dx%d, want 4x2", small.Width, small.Height)
	}
	if got := small.GetPixel(2, 1); got != ColorRed {
		t.Errorf("sampled pixel = %v, want red", got)
	}

	if fb.Downsample(100, 100) != fb {
		t.Error("Downsample should return the framebuffer when it already fits")
	}
}

func TestPreview(t *testing.T) {
	fb := NewFramebuffer(6, 4)
	fb.Clear(ColorGreen)

	var buf bytes.Buffer
	if err := fb.Preview(&buf, 6); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !strings.Contains(buf.String(), "▀") {
		t.Errorf("preview has no half blocks: %q", buf.String())
	}
}
