// SPDX-License-Identifier: MIT

package playlist

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/ManuGH/matchcast/internal/domain"
)

// Assembler builds the ordered entry list of one run.
type Assembler struct {
	header   Header
	profiles Profiles

	mu      sync.Mutex
	entries []Entry
}

// NewAssembler returns an empty Assembler.
func NewAssembler(h Header, profiles Profiles) *Assembler {
	return &Assembler{header: h, profiles: profiles}
}

// EntryFor maps a resolved (match, source, url) to an Entry. suffix is the
// mirror suffix from the tracker, empty for the first entry of a title.
func (a *Assembler) EntryFor(m domain.Match, src domain.Source, url, suffix string) Entry {
	e := Entry{
		Name:    DisplayName(m.Title, src, suffix),
		TvgName: m.Title,
		Logo:    m.Poster,
		Group:   NormalizeCategory(m.Category),
		URL:     url,
	}
	var hints []string
	if src.IsEmbed() {
		hints = append(hints, src.ID)
	}
	if prof, ok := a.profiles.Lookup(m.Category, m.Title, hints...); ok {
		e.TvgID = prof.TvgID
		if e.Logo == "" {
			e.Logo = prof.Logo
		}
		if prof.Group != "" {
			e.Group = prof.Group
		}
	}
	if e.Group == "" {
		e.Group = DefaultGroup
	}
	return e
}

// DisplayName is "Title (PROVIDER)" plus the mirror suffix. Embed sources
// have no meaningful provider and show the title alone.
func DisplayName(title string, src domain.Source, suffix string) string {
	name := title
	if p := strings.TrimSpace(src.Provider); p != "" && !src.IsEmbed() {
		name += " (" + strings.ToUpper(p) + ")"
	}
	if suffix != "" {
		name += " " + suffix
	}
	return name
}

// Append adds e to the playlist.
func (a *Assembler) Append(e Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

// Entries returns a copy of the entries in append order.
func (a *Assembler) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Len returns the number of appended entries.
func (a *Assembler) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// WriteTo writes the M3U document to w.
func (a *Assembler) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := WriteM3U(cw, a.header, a.Entries())
	return cw.n, err
}

// Serialize returns the M3U document as a string.
func (a *Assembler) Serialize() string {
	var buf bytes.Buffer
	_, _ = a.WriteTo(&buf)
	return buf.String()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
