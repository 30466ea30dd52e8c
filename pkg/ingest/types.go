// Package ingest resolves a chat export file into decoded text before parsing.
package ingest

import "errors"

var (
	// ErrUndecodable is returned when no supported encoding yields valid text.
	ErrUndecodable = errors.New("could not decode export: unsupported text encoding")

	// ErrNoChatInArchive is returned for a zip export without a .txt member.
	ErrNoChatInArchive = errors.New("archive contains no .txt chat export")
)

// Encoding names a text encoding recognized by Decode.
type Encoding string

const (
	UTF8    Encoding = "utf-8"
	UTF8BOM Encoding = "utf-8-sig"
	UTF16LE Encoding = "utf-16le"
	UTF16BE Encoding = "utf-16be"
	Unknown Encoding = ""
)

// Export is a decoded chat export.
type Export struct {
	// Text is the decoded export, without any byte order mark.
	Text string

	// Encoding is the encoding the bytes were decoded from.
	Encoding Encoding

	// Source is the file path, or "-" for stdin and in-memory uploads.
	Source string

	// Member is the archive member the text came from, empty for plain files.
	Member string

	// Size is the number of raw bytes decoded.
	Size int
}
