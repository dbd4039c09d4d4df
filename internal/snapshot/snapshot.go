// Package snapshot reads and rewrites the merged_data.js station
// snapshots: an optional block of // header comments followed by a single
// window.THINGSPEAK_DATA = {...}; assignment with the feed payload inside.
//
// Unlike the merge core, structural problems here are fatal: a blob whose
// JSON cannot be extracted must not be partially recovered and rewritten.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/luki/telemerge/internal/feed"
)

// FileName is the snapshot file each station folder carries.
const FileName = "merged_data.js"

var (
	assignRe     = regexp.MustCompile(`(?s)window\.THINGSPEAK_DATA\s*=\s*(\{.*\})\s*;?\s*$`)
	downloadedRe = regexp.MustCompile(`Downloaded:\s*(.+)`)
)

// Document is the decoded snapshot payload. Channel metadata is kept
// verbatim so a rewrite round-trips fields this tool does not interpret.
// A single-channel snapshot populates Feeds; a dual-channel one populates
// TempFeeds/HumFeeds.
type Document struct {
	Header []string `json:"-"`

	Channel    json.RawMessage   `json:"channel,omitempty"`
	Feeds      []feed.RawReading `json:"feeds,omitempty"`
	TempFeeds  []feed.RawReading `json:"tempFeeds,omitempty"`
	HumFeeds   []feed.RawReading `json:"humFeeds,omitempty"`
	HumChannel json.RawMessage   `json:"humChannel,omitempty"`
}

// FeedPair resolves the snapshot layout into the two merge inputs. A
// single-channel snapshot yields its feeds as the temperature stream and
// no humidity stream.
func (d *Document) FeedPair() (tempFeed, humFeed []feed.RawReading) {
	if len(d.Feeds) > 0 {
		return d.Feeds, d.HumFeeds
	}
	return d.TempFeeds, d.HumFeeds
}

// Downloaded returns the "Downloaded: <stamp>" annotation from the header
// comments, or "" if absent.
func (d *Document) Downloaded() string {
	for _, line := range d.Header {
		if m := downloadedRe.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// Load reads and decodes a snapshot file.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(raw))
}

// Parse decodes snapshot file content.
func Parse(content string) (*Document, error) {
	var header []string
	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(line, "//") {
			break
		}
		header = append(header, line)
	}

	m := assignRe.FindStringSubmatch(content)
	if m == nil {
		return nil, fmt.Errorf("no window.THINGSPEAK_DATA assignment found")
	}

	doc := &Document{Header: header}
	if err := json.Unmarshal([]byte(m[1]), doc); err != nil {
		return nil, fmt.Errorf("decode snapshot payload: %w", err)
	}
	return doc, nil
}

// Write serialises the document back to path as a compact single-line
// assignment, preserving the header comments. If path already exists it
// is backed up to path+".bak" first.
func Write(path string, doc *Document) error {
	if prev, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".bak", prev, 0644); err != nil {
			return fmt.Errorf("backup snapshot: %w", err)
		}
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode snapshot payload: %w", err)
	}

	var b strings.Builder
	for _, line := range doc.Header {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("window.THINGSPEAK_DATA = ")
	b.Write(payload)
	b.WriteByte(';')

	return os.WriteFile(path, []byte(b.String()), 0644)
}
