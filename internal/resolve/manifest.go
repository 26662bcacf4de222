// SPDX-License-Identifier: MIT

package resolve

import (
	"regexp"
	"strings"
)

var manifestShape = regexp.MustCompile(`(?i)^https?://[^/\s?#]+/[^\s?#]*\.(?:m3u8|mpd)(?:[?#][^\s]*)?$`)

// IsManifest reports whether rawURL looks like an absolute HLS or DASH
// manifest URL.
func IsManifest(rawURL string) bool {
	return manifestShape.MatchString(strings.TrimSpace(rawURL))
}
