package m3u

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

const (
	extinf       = "#EXTINF"
	unknownTitle = "Unknown"
	maxLineBytes = 1 << 20
)

var attrPattern = regexp.MustCompile(`([a-zA-Z0-9-]+)="([^"]*)"`)

// Parse converts playlist text into channels in order of appearance.
// categoryName is recorded on every channel and is the group fallback.
func Parse(content, categoryName string) []Channel {
	channels, _ := ParseReader(strings.NewReader(content), categoryName)
	return channels
}

const byteOrderMark = "\uFEFF"

// ParseReader is the streaming form of Parse. The only error it returns is a
// read error from r; channels completed before the error are still returned.
//
// An #EXTINF line opens a pending record and the next non-comment line closes
// it as the stream URL. A pending record that meets another #EXTINF or the end
// of input is dropped.
func ParseReader(r io.Reader, categoryName string) ([]Channel, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		channels []Channel
		pending  *Channel
	)
	for first := true; sc.Scan(); first = false {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, byteOrderMark)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, extinf) {
			ch := parseExtinf(line, categoryName)
			pending = &ch
			continue
		}
		if strings.HasPrefix(line, "#") || pending == nil {
			continue
		}
		pending.URL = line
		pending.ID = ChannelID(pending.Name, pending.URL)
		channels = append(channels, *pending)
		pending = nil
	}
	return channels, sc.Err()
}

func parseExtinf(line, categoryName string) Channel {
	meta, title, _ := strings.Cut(line, ",")
	title = strings.TrimSpace(title)
	if title == "" {
		title = unknownTitle
	}
	attrs := parseAttributes(meta)

	group := attrs["group-title"]
	if group == "" {
		group = categoryName
	}
	return Channel{
		Name:     title,
		Logo:     attrs["tvg-logo"],
		Group:    group,
		Category: categoryName,
	}
}

func parseAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPattern.FindAllStringSubmatch(raw, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}
