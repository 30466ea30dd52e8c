package ingest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

var zipMagic = []byte("PK\x03\x04")

// ReadFile reads and decodes an export from disk. A path of "-" reads stdin.
func ReadFile(filePath string) (*Export, error) {
	var (
		data []byte
		err  error
	)
	if filePath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(filePath) // #nosec G304 -- user-provided paths are expected
	}
	if err != nil {
		return nil, fmt.Errorf("reading export %s: %w", filePath, err)
	}

	export, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	export.Source = filePath
	return export, nil
}

// Load decodes an export held in memory. Zip archives resolve to their
// first .txt member.
func Load(data []byte) (*Export, error) {
	export := &Export{Source: "-", Size: len(data)}

	if bytes.HasPrefix(data, zipMagic) {
		member, content, err := chatFromArchive(data)
		if err != nil {
			return nil, err
		}
		export.Member = member
		data = content
	}

	text, enc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	export.Text = text
	export.Encoding = enc
	return export, nil
}

func chatFromArchive(data []byte) (string, []byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("opening archive: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isChatMember(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		return f.Name, content, nil
	}

	return "", nil, ErrNoChatInArchive
}

// isChatMember skips resource-fork entries macOS adds to archives.
func isChatMember(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") {
		return false
	}
	base := path.Base(name)
	if strings.HasPrefix(base, "._") {
		return false
	}
	return strings.EqualFold(path.Ext(base), ".txt")
}
