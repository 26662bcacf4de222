// SPDX-License-Identifier: MIT

package playlist

import (
	"bufio"
	"io"
	"strings"
)

// Entry is one playable channel line pair in the output playlist.
type Entry struct {
	Name    string
	TvgID   string
	TvgName string
	Logo    string
	Group   string
	URL     string
}

// Header carries the document-level attributes of the #EXTM3U line.
type Header struct {
	// XTvgURL points players at an external XMLTV guide.
	XTvgURL string
}

var attrEscaper = strings.NewReplacer(`"`, `'`, "\r", " ", "\n", " ")
var nameEscaper = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// WriteM3U writes an extended M3U document. tvg-id and tvg-name are omitted
// when empty; tvg-logo and group-title are always present.
func WriteM3U(w io.Writer, h Header, entries []Entry) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("#EXTM3U")
	if h.XTvgURL != "" {
		bw.WriteString(` x-tvg-url="` + attrEscaper.Replace(h.XTvgURL) + `"`)
	}
	bw.WriteString("\n")

	for _, e := range entries {
		bw.WriteString("#EXTINF:-1")
		if e.TvgID != "" {
			writeAttr(bw, "tvg-id", e.TvgID)
		}
		if e.TvgName != "" {
			writeAttr(bw, "tvg-name", e.TvgName)
		}
		writeAttr(bw, "tvg-logo", e.Logo)
		writeAttr(bw, "group-title", e.Group)
		bw.WriteString(",")
		bw.WriteString(strings.TrimSpace(nameEscaper.Replace(e.Name)))
		bw.WriteString("\n")
		bw.WriteString(strings.TrimSpace(e.URL))
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func writeAttr(bw *bufio.Writer, key, value string) {
	bw.WriteString(" ")
	bw.WriteString(key)
	bw.WriteString(`="`)
	bw.WriteString(attrEscaper.Replace(value))
	bw.WriteString(`"`)
}
