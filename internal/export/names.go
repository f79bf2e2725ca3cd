package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/simtools/dbpfkit/internal/codec"
	"github.com/simtools/dbpfkit/internal/tgi"
)

// filenameBlockSize is the fixed prefix resources of filename-carrying
// types reserve for their own name.
const filenameBlockSize = 0x40

// EmbeddedFilename reads the zero-terminated Windows-1252 name block at the
// start of payload. Empty when the payload is too short to carry one.
func EmbeddedFilename(payload []byte) string {
	if len(payload) < filenameBlockSize {
		return ""
	}

	block := payload[:filenameBlockSize]
	if end := bytes.IndexByte(block, 0); end >= 0 {
		block = block[:end]
	}
	return strings.TrimSpace(codec.DecodeWindows1252(string(block)))
}

// fileNameSanitizer folds path separators and characters Windows refuses in
// file names.
var fileNameSanitizer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

func sanitizeFilename(name string) string {
	name = fileNameSanitizer.Replace(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || r == 0x7F {
			r = '_'
		}
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), " .")
}

// EntryFileName builds the output name for one entry: the embedded resource
// name when the type carries one, the instance id otherwise, with the
// extension from the type table.
func EntryFileName(id tgi.TGI, payload []byte) string {
	base := ""
	if id.Type.HasEmbeddedFilename() {
		base = sanitizeFilename(EmbeddedFilename(payload))
	}
	if base == "" {
		base = fmt.Sprintf("0x%016X", id.Instance)
	}
	return base + "." + id.Type.Extension()
}
