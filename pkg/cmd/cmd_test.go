package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var icoHeader = []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00}

// execute 以给定参数运行根命令并返回输出.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// TestSniff_DefaultPolicy 默认严格模式下未知 MIME 被拒绝，已知签名通过.
func TestSniff_DefaultPolicy(t *testing.T) {
	dir := t.TempDir()
	ico := writeFile(t, dir, "favicon.ico", icoHeader)
	png := writeFile(t, dir, "a.png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0})

	out, err := execute(t, "sniff", ico, "--mime", "image/x-icon", "-c", dir)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("err = %v, output %q", err, out)
	}

	if !strings.Contains(out, "content does not match image/x-icon") {
		t.Errorf("output = %q", out)
	}

	out, err = execute(t, "sniff", png, "--mime", "image/png", "-c", dir)
	if err != nil || !strings.Contains(out, "ok (image/png)") {
		t.Errorf("png: %v, %q", err, out)
	}
}

// TestSniff_ConfiguredPolicy 关闭 strict_mime 或 magic_bytes 后与服务端判定一致.
func TestSniff_ConfiguredPolicy(t *testing.T) {
	dir := t.TempDir()
	ico := writeFile(t, dir, "favicon.ico", icoHeader)
	text := writeFile(t, dir, "fake.png", []byte("not an image at all"))

	lenient := writeFile(t, dir, "lenient.yaml", []byte("server:\n  reload_config: false\nupload:\n  strict_mime: false\n"))

	out, err := execute(t, "sniff", ico, "--mime", "image/x-icon", "-c", lenient)
	if err != nil || !strings.Contains(out, "ok (image/x-icon)") {
		t.Errorf("strict_mime=false: %v, %q", err, out)
	}

	out, err = execute(t, "sniff", text, "--mime", "image/png", "-c", lenient)
	if !errors.Is(err, errInvalid) {
		t.Errorf("magic bytes still checked: %v, %q", err, out)
	}

	noMagic := writeFile(t, dir, "nomagic.yaml", []byte("server:\n  reload_config: false\nupload:\n  magic_bytes: false\n"))

	out, err = execute(t, "sniff", text, "--mime", "image/png", "-c", noMagic)
	if err != nil || !strings.Contains(out, "ok (image/png)") {
		t.Errorf("magic_bytes=false: %v, %q", err, out)
	}
}

// TestBackendsList 列出已注册后端并标出配置选中的那个.
func TestBackendsList(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "kv", "ls", "-c", dir)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, " * memory\n") || !strings.Contains(out, "   redis\n") {
		t.Errorf("kv ls = %q", out)
	}

	redis := writeFile(t, dir, "redis.yaml", []byte("server:\n  reload_config: false\nkv:\n  type: redis\n"))

	out, err = execute(t, "kv", "ls", "-c", redis)
	if err != nil || !strings.Contains(out, " * redis\n") || !strings.Contains(out, "   memory\n") {
		t.Errorf("kv ls with redis config = %q, %v", out, err)
	}

	out, err = execute(t, "db", "ls", "-c", dir)
	if err != nil || !strings.Contains(out, " * sqlite\n") {
		t.Errorf("db ls = %q, %v", out, err)
	}
}
