package ingest

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

const sample = "[01/02/23, 09:00:00] Alice: Hello there\n"

func encodeUTF16(t *testing.T, s string, endian unicode.Endianness, bom unicode.BOMPolicy) []byte {
	t.Helper()
	out, err := unicode.UTF16(endian, bom).NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encoding UTF-16: %v", err)
	}
	return out
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Encoding
	}{
		{"utf-8", []byte(sample), UTF8},
		{"utf-8 with BOM", append([]byte{0xEF, 0xBB, 0xBF}, sample...), UTF8BOM},
		{"utf-16le with BOM", encodeUTF16(t, sample, unicode.LittleEndian, unicode.UseBOM), UTF16LE},
		{"utf-16be with BOM", encodeUTF16(t, sample, unicode.BigEndian, unicode.UseBOM), UTF16BE},
		{"utf-16le without BOM", encodeUTF16(t, sample, unicode.LittleEndian, unicode.IgnoreBOM), UTF16LE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, enc, err := Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if enc != tt.want {
				t.Errorf("encoding = %q, want %q", enc, tt.want)
			}
			if text != sample {
				t.Errorf("text = %q, want %q", text, sample)
			}
		})
	}
}

func TestDecode_NonASCII(t *testing.T) {
	s := "[01/02/23, 09:00:00] Zoë: ça va 😀\n"
	text, _, err := Decode(encodeUTF16(t, s, unicode.LittleEndian, unicode.UseBOM))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if text != s {
		t.Errorf("text = %q, want %q", text, s)
	}
}

func TestDecode_UTF8WithStrayNUL(t *testing.T) {
	data := []byte("[01/02/23, 09:00:00] Alice: hi\x00\n")
	if len(data)%2 != 0 {
		data = append(data, '\n')
	}

	text, enc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if enc != UTF8 {
		t.Errorf("encoding = %q, want %q", enc, UTF8)
	}
	if text != string(data) {
		t.Errorf("text = %q", text)
	}
}

func TestDecode_Undecodable(t *testing.T) {
	_, _, err := Decode([]byte{0xC3, 0x28, 0xA0, 0xA1, 0x41})
	if !errors.Is(err, ErrUndecodable) {
		t.Errorf("Decode() error = %v, want ErrUndecodable", err)
	}
}

func makeZip(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestLoad_Zip(t *testing.T) {
	files := map[string]string{
		"__MACOSX/._chat.txt": "junk",
		"IMG-0001.jpg":        "not text",
		"_chat.txt":           sample,
	}
	data := makeZip(t, files, []string{"__MACOSX/._chat.txt", "IMG-0001.jpg", "_chat.txt"})

	export, err := Load(data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if export.Member != "_chat.txt" {
		t.Errorf("Member = %q, want _chat.txt", export.Member)
	}
	if export.Text != sample {
		t.Errorf("Text = %q", export.Text)
	}
}

func TestLoad_ZipWithoutChat(t *testing.T) {
	data := makeZip(t, map[string]string{"photo.jpg": "x"}, []string{"photo.jpg"})
	_, err := Load(data)
	if !errors.Is(err, ErrNoChatInArchive) {
		t.Errorf("Load() error = %v, want ErrNoChatInArchive", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(p, []byte(sample), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	export, err := ReadFile(p)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if export.Source != p || export.Encoding != UTF8 || export.Size != len(sample) {
		t.Errorf("export = %+v", export)
	}
}

func TestReadFile_NotFound(t *testing.T) {
	if _, err := ReadFile("/nonexistent/chat.txt"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}
