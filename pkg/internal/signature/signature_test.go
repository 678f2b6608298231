package signature_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yeisme/listingvault/pkg/internal/policy"
	"github.com/yeisme/listingvault/pkg/internal/signature"
)

func pad(b []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, b)

	return out
}

// TestValidate_Formats 每种格式的正例与反例.
func TestValidate_Formats(t *testing.T) {
	v := signature.New(policy.Default())

	cases := []struct {
		name string
		mime string
		data []byte
		want bool
	}{
		{"jpeg", "image/jpeg", pad([]byte{0xFF, 0xD8, 0xFF, 0xE0}, 64), true},
		{"jpeg upper mime", "IMAGE/JPEG", pad([]byte{0xFF, 0xD8, 0xFF}, 64), true},
		{"jpeg bad", "image/jpeg", pad([]byte{0xFF, 0xD8, 0x00}, 64), false},
		{"png", "image/png", pad([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, 64), true},
		{"png as jpeg", "image/jpeg", pad([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, 64), false},
		{"gif87", "image/gif", pad([]byte("GIF87a"), 32), true},
		{"gif89", "image/gif", pad([]byte("GIF89a"), 32), true},
		{"gif bad", "image/gif", pad([]byte("GIF90a"), 32), false},
		{"bmp", "image/bmp", pad([]byte("BM"), 32), true},
		{"tiff le", "image/tiff", pad([]byte{0x49, 0x49, 0x2A, 0x00}, 32), true},
		{"tiff be", "image/tiff", pad([]byte{0x4D, 0x4D, 0x00, 0x2A}, 32), true},
		{"tiff bad", "image/tiff", pad([]byte{0x4D, 0x4D, 0x2A, 0x00}, 32), false},
		{"webp", "image/webp", pad([]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), 32), true},
		{"webp riff only", "image/webp", pad([]byte("RIFF\x00\x00\x00\x00WAVE"), 32), false},
		{"webp short", "image/webp", []byte("RIFF\x00\x00\x00\x00WEB"), false},
		{"svg xml", "image/svg+xml", []byte(`<?xml version="1.0"?><svg></svg>`), true},
		{"svg tag upper", "image/svg+xml", []byte("  <SVG xmlns='x'></SVG>"), true},
		{"svg plain text", "image/svg+xml", []byte("hello world, not an image"), false},
		{"svg too short", "image/svg+xml", []byte("<sv"), false},
		{"empty", "image/png", nil, false},
		{"mime params", "image/png; charset=binary", pad([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, 16), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.Validate(bytes.NewReader(tc.data), tc.mime)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tc.want {
				t.Errorf("Validate = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestValidate_SVGKeywordBeyondPrefix 关键字超出前 100 字节时不匹配.
func TestValidate_SVGKeywordBeyondPrefix(t *testing.T) {
	v := signature.NewWithOptions(true, true)
	data := strings.Repeat(" ", 100) + "<svg></svg>"

	ok, err := v.Validate(strings.NewReader(data), "image/svg+xml")
	if err != nil {
		t.Fatal(err)
	}

	if ok {
		t.Error("keyword after the first 100 bytes should not match")
	}
}

// TestValidate_UnknownMime 未知 MIME 取决于 strict 开关.
func TestValidate_UnknownMime(t *testing.T) {
	data := []byte("%PDF-1.7 whatever")

	strict := signature.NewWithOptions(true, true)
	if ok, _ := strict.Validate(bytes.NewReader(data), "application/pdf"); ok {
		t.Error("strict validator should reject unknown mime")
	}

	lenient := signature.NewWithOptions(false, true)
	if ok, _ := lenient.Validate(bytes.NewReader(data), "application/pdf"); !ok {
		t.Error("lenient validator should accept unknown mime")
	}
}

// TestValidate_MagicDisabled 关闭魔数检查时不读取任何内容.
func TestValidate_MagicDisabled(t *testing.T) {
	v := signature.NewWithOptions(true, false)
	r := bytes.NewReader([]byte("garbage"))

	ok, err := v.Validate(r, "image/png")
	if err != nil || !ok {
		t.Fatalf("Validate = %v, %v", ok, err)
	}

	if r.Len() != len("garbage") {
		t.Error("reader should not be consumed")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

// TestValidate_ReadError 真正的读错误向上返回.
func TestValidate_ReadError(t *testing.T) {
	v := signature.NewWithOptions(true, true)

	ok, err := v.Validate(failingReader{}, "image/png")
	if err == nil {
		t.Fatal("expected read error")
	}

	if ok {
		t.Error("read error must not validate")
	}
}

// TestValidate_ConsumesOnlyPrefix 二进制格式最多读取 12 字节.
func TestValidate_ConsumesOnlyPrefix(t *testing.T) {
	v := signature.NewWithOptions(true, true)
	r := bytes.NewReader(pad([]byte{0xFF, 0xD8, 0xFF}, 100))

	if _, err := v.Validate(r, "image/jpeg"); err != nil {
		t.Fatal(err)
	}

	if r.Len() != 88 {
		t.Errorf("remaining = %d, want 88", r.Len())
	}
}

// TestPeek 校验后返回的 Reader 包含完整内容.
func TestPeek(t *testing.T) {
	v := signature.NewWithOptions(true, true)
	data := pad([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, 4096)

	ok, replay, err := v.Peek(bytes.NewReader(data), "image/png")
	if err != nil || !ok {
		t.Fatalf("Peek = %v, %v", ok, err)
	}

	got, err := io.ReadAll(replay)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(got, data) {
		t.Errorf("replay returned %d bytes, want %d", len(got), len(data))
	}

	short := []byte{0xFF}

	ok, replay, err = v.Peek(bytes.NewReader(short), "image/jpeg")
	if err != nil || ok {
		t.Fatalf("short Peek = %v, %v", ok, err)
	}

	if got, _ := io.ReadAll(replay); !bytes.Equal(got, short) {
		t.Errorf("short replay = %v", got)
	}
}

// TestLookupSupported 规则表覆盖默认允许的所有 MIME.
func TestLookupSupported(t *testing.T) {
	for _, m := range policy.Default().AllowedMimeTypes() {
		if _, ok := signature.Lookup(m); !ok {
			t.Errorf("no rule for %s", m)
		}
	}

	if got := len(signature.Supported()); got != 7 {
		t.Errorf("Supported() = %d entries", got)
	}

	r, ok := signature.Lookup("Image/WebP")
	if !ok || r.MIME != "image/webp" || len(r.Offset8) != 4 {
		t.Errorf("Lookup(webp) = %+v, %v", r, ok)
	}
}
