// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package m3u

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelID(t *testing.T) {
	assert.Equal(t, "c97159", ChannelID("a", "b"))
	assert.Equal(t, "c1665918179", ChannelID("BBC News", "http://stream/bbc.m3u8"))
	// non-BMP runes hash as surrogate pairs
	assert.Equal(t, "c1332400709", ChannelID("Télé 😀", "http://x/y"))
	assert.Equal(t, ChannelID("x", "y"), ChannelID("x", "y"))
	assert.NotEqual(t, ChannelID("x", "y"), ChannelID("y", "x"))
}

func TestParse_SingleEntry(t *testing.T) {
	in := "#EXTINF:-1 tvg-logo=\"http://x/logo.png\" group-title=\"News\",BBC News\nhttp://stream/bbc.m3u8\n"
	got := Parse(in, "News Category")

	want := []Channel{{
		ID:       ChannelID("BBC News", "http://stream/bbc.m3u8"),
		Name:     "BBC News",
		Logo:     "http://x/logo.png",
		Group:    "News",
		URL:      "http://stream/bbc.m3u8",
		Category: "News Category",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Channel
	}{
		{
			name: "leading byte order mark",
			in:   "\uFEFF#EXTINF:-1 group-title=\"News\",BBC\nhttp://a/1.m3u8\n#EXTINF:-1,Two\nhttp://a/2.m3u8\n",
			want: []Channel{
				{Name: "BBC", Group: "News", URL: "http://a/1.m3u8", Category: "Cat"},
				{Name: "Two", Group: "Cat", URL: "http://a/2.m3u8", Category: "Cat"},
			},
		},
		{
			name: "group falls back to category",
			in:   "#EXTINF:-1 tvg-logo=\"L\",Only Logo\nhttp://a\n",
			want: []Channel{{Name: "Only Logo", Logo: "L", Group: "Cat", URL: "http://a", Category: "Cat"}},
		},
		{
			name: "empty group falls back to category",
			in:   "#EXTINF:-1 group-title=\"\",Blank Group\nhttp://a\n",
			want: []Channel{{Name: "Blank Group", Group: "Cat", URL: "http://a", Category: "Cat"}},
		},
		{
			name: "missing title becomes Unknown",
			in:   "#EXTINF:-1 group-title=\"G\",   \nhttp://a\n",
			want: []Channel{{Name: "Unknown", Group: "G", URL: "http://a", Category: "Cat"}},
		},
		{
			name: "no comma at all",
			in:   "#EXTINF:-1\nhttp://a\n",
			want: []Channel{{Name: "Unknown", Group: "Cat", URL: "http://a", Category: "Cat"}},
		},
		{
			name: "title keeps later commas",
			in:   "#EXTINF:-1,News, Weather, Sport\nhttp://a\n",
			want: []Channel{{Name: "News, Weather, Sport", Group: "Cat", URL: "http://a", Category: "Cat"}},
		},
		{
			name: "dangling metadata is dropped",
			in:   "#EXTINF:-1,First\n#EXTINF:-1,Second\nhttp://b\n#EXTINF:-1,Tail\n",
			want: []Channel{{Name: "Second", Group: "Cat", URL: "http://b", Category: "Cat"}},
		},
		{
			name: "comments and blank lines between metadata and url",
			in:   "#EXTM3U\n\n#EXTINF:-1,One\n#EXTVLCOPT:http-user-agent=x\n\n  http://a  \n",
			want: []Channel{{Name: "One", Group: "Cat", URL: "http://a", Category: "Cat"}},
		},
		{
			name: "url without metadata is ignored",
			in:   "http://orphan\n#EXTINF:-1,One\nhttp://a\nhttp://stray\n",
			want: []Channel{{Name: "One", Group: "Cat", URL: "http://a", Category: "Cat"}},
		},
		{
			name: "crlf line endings",
			in:   "#EXTINF:-1 group-title=\"G\",One\r\nhttp://a\r\n#EXTINF:-1,Two\r\nhttp://b\r\n",
			want: []Channel{
				{Name: "One", Group: "G", URL: "http://a", Category: "Cat"},
				{Name: "Two", Group: "Cat", URL: "http://b", Category: "Cat"},
			},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in, "Cat")
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(Channel{}, "ID"), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
			for _, ch := range got {
				assert.Equal(t, ChannelID(ch.Name, ch.URL), ch.ID)
			}
		})
	}
}

func TestParse_CountsPairsInOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for i := 0; i < 50; i++ {
		b.WriteString("#EXTINF:-1,Ch\n\nhttp://s/")
		b.WriteByte(byte('a' + i%26))
		b.WriteString("\n")
	}
	b.WriteString("#EXTINF:-1,Trailing\n")

	got := Parse(b.String(), "Cat")
	require.Len(t, got, 50)
	assert.Equal(t, "http://s/a", got[0].URL)
	assert.Equal(t, "http://s/b", got[1].URL)
}

type failAfter struct {
	r   io.Reader
	err error
}

func (f *failAfter) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if errors.Is(err, io.EOF) {
		return n, f.err
	}
	return n, err
}

func TestParseReader_ReturnsPartialOnError(t *testing.T) {
	boom := errors.New("connection reset")
	r := &failAfter{r: strings.NewReader("#EXTINF:-1,One\nhttp://a\n#EXTINF:-1,Two\n"), err: boom}

	got, err := ParseReader(r, "Cat")
	require.ErrorIs(t, err, boom)
	require.Len(t, got, 1)
	assert.Equal(t, "One", got[0].Name)
}
