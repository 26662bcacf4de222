// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/matchcast/internal/domain"
	"github.com/ManuGH/matchcast/internal/platform/httpx"
)

func TestIsManifest(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://cdn.example/a.m3u8", true},
		{"http://cdn.example/live/index.M3U8?token=abc", true},
		{"https://cdn.example/dash/manifest.mpd", true},
		{"https://cdn.example/a.m3u8#frag", true},
		{"https://cdn.example/video.mp4", false},
		{"https://cdn.example/a.m3u8.html", false},
		{"/relative/a.m3u8", false},
		{"ftp://cdn.example/a.m3u8", false},
		{"https://cdn.example/?u=a.m3u8", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsManifest(tt.in), tt.in)
	}
}

func TestPickField(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"object url", `{"url":"https://cdn.example/a.m3u8"}`, "https://cdn.example/a.m3u8", false},
		{"array first element", `[{"embedUrl":"https://e.example/1"},{"url":"https://x"}]`, "https://e.example/1", false},
		{"field order", `{"embedUrl":"https://e.example/1","link":"https://l.example/2"}`, "https://l.example/2", false},
		{"empty value skipped", `{"url":"","link":"https://l.example/2"}`, "https://l.example/2", false},
		{"empty array", `[]`, "", true},
		{"no field", `{"stream":"x"}`, "", true},
		{"malformed", `{"url":`, "", true},
		{"empty body", ``, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pickField([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirect_SkipsEmbedSources(t *testing.T) {
	d := NewDirect("https://api.example", nil)
	c := d.Resolve(context.Background(), Attempt{Source: domain.Source{Provider: "embed", ID: "https://e.example"}})
	assert.ErrorIs(t, c.Err, ErrNotApplicable)
}

func TestDirect_Endpoint(t *testing.T) {
	d := NewDirect("https://api.example/api/stream/", nil)
	d.now = func() time.Time { return time.Unix(1700000000, 0) }

	got := d.endpoint(Attempt{Source: domain.Source{Provider: "alpha", ID: "team a/b"}})
	assert.Equal(t, "https://api.example/api/stream/alpha/team%20a%2Fb?t=1700000000", got)
}

func TestScrape_PatternOrder(t *testing.T) {
	s := NewScrape(nil, nil, 0)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "player source assignment beats bare url",
			body: `https://cdn.example/bare.m3u8 <script>file: "https://cdn.example/file.m3u8"</script>`,
			want: "https://cdn.example/file.m3u8",
		},
		{
			name: "loadSource",
			body: `hls.loadSource("https://cdn.example/load.m3u8")`,
			want: "https://cdn.example/load.m3u8",
		},
		{
			name: "escaped slashes",
			body: `{"hls":"https:\/\/cdn.example\/esc\/index.m3u8"}`,
			want: "https://cdn.example/esc/index.m3u8",
		},
		{
			name: "bare url",
			body: `stream at https://cdn.example/bare.m3u8?x=1 now`,
			want: "https://cdn.example/bare.m3u8?x=1",
		},
		{
			name: "relative player source",
			body: `src: '/hls/rel.m3u8'`,
			want: "https://site.example/hls/rel.m3u8",
		},
		{
			name: "nothing",
			body: `<video></video>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.extract("https://site.example/embed/1", []byte(tt.body)))
		})
	}
}

func TestCompilePatterns(t *testing.T) {
	_, err := CompilePatterns([]string{`ok(\d+)`, `bad(`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pattern 1")

	res, err := CompilePatterns(DefaultPatterns)
	require.NoError(t, err)
	assert.Len(t, res, len(DefaultPatterns))
}

func TestFrameLinks(t *testing.T) {
	body := []byte(`<html><body>
		<iframe src="https://player.example/embed/1"></iframe>
		<iframe src="https://ads.example/banner"></iframe>
		<a href="/watch/player?id=2">Watch</a>
		<a href="/watch/player?id=2">Duplicate</a>
		<source src="javascript:embed()">
		<iframe src="//cdn.example/embed/3"></iframe>
	</body></html>`)

	got := frameLinks("https://site.example/stream/1", body, 5)
	assert.Equal(t, []string{
		"https://player.example/embed/1",
		"https://site.example/watch/player?id=2",
		"https://cdn.example/embed/3",
	}, got)

	assert.Len(t, frameLinks("https://site.example/", body, 1), 1)
	assert.Nil(t, frameLinks("https://site.example/", body, 0))
}

func TestIntercept(t *testing.T) {
	t.Run("no embed", func(t *testing.T) {
		c := NewIntercept(&fakeRenderer{}, 0).Resolve(context.Background(), Attempt{})
		assert.ErrorIs(t, c.Err, ErrNoEmbed)
	})

	t.Run("no browser", func(t *testing.T) {
		c := NewIntercept(nil, 0).Resolve(context.Background(), Attempt{EmbedURL: "https://e.example"})
		assert.ErrorIs(t, c.Err, ErrNotApplicable)
	})

	t.Run("deadline maps to no match", func(t *testing.T) {
		c := NewIntercept(&fakeRenderer{}, time.Millisecond).Resolve(context.Background(), Attempt{EmbedURL: "https://e.example"})
		assert.ErrorIs(t, c.Err, ErrNoMatch)
	})

	t.Run("renderer error passes through", func(t *testing.T) {
		boom := errors.New("browser crashed")
		c := NewIntercept(errRenderer{boom}, 0).Resolve(context.Background(), Attempt{EmbedURL: "https://e.example"})
		assert.ErrorIs(t, c.Err, boom)
	})
}

type errRenderer struct{ err error }

func (e errRenderer) Capture(context.Context, string, func(string) bool) (string, error) {
	return "", e.err
}

func TestProber(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.m3u8", func(w http.ResponseWriter, _ *http.Request) {})
	mux.HandleFunc("/nohead.m3u8", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Range") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("#EXTM3U"))
	})
	mux.HandleFunc("/gone.m3u8", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewProber(httpx.NewSessionWithClient(srv.Client(), httpx.Headers{}), nil, time.Second)

	assert.True(t, p.Alive(context.Background(), srv.URL+"/ok.m3u8"))
	assert.True(t, p.Alive(context.Background(), srv.URL+"/nohead.m3u8"))
	assert.False(t, p.Alive(context.Background(), srv.URL+"/gone.m3u8"))

	closed := httptest.NewServer(mux)
	closedURL := closed.URL
	closed.Close()
	assert.False(t, p.Alive(context.Background(), closedURL+"/ok.m3u8"))
}

func TestDirect_RequiresStatusOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"url":"https://cdn.example/a.m3u8"}`))
	}))
	defer srv.Close()

	fetch := NewFetcher(httpx.NewSessionWithClient(srv.Client(), httpx.Headers{}), nil, nil)
	c := NewDirect(srv.URL, fetch).Resolve(context.Background(), Attempt{Source: domain.Source{Provider: "alpha", ID: "1"}})

	var se *StatusError
	require.ErrorAs(t, c.Err, &se)
	assert.Equal(t, http.StatusAccepted, se.Code)
	assert.Empty(t, c.URL)

	// Other strategies still take any 2xx.
	body, err := fetch.Get(context.Background(), srv.URL+"/page", "text/html")
	require.NoError(t, err)
	assert.Contains(t, string(body), "a.m3u8")
}
