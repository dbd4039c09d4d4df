// Package inject upgrades a station snapshot to the dual-channel layout
// by attaching a humidity feed alongside the existing temperature feed.
package inject

import (
	"fmt"

	"github.com/luki/telemerge/internal/feed"
	"github.com/luki/telemerge/internal/snapshot"
)

// Humidity rewrites doc in place: a single-channel snapshot has its feeds
// moved to tempFeeds, an already-dual snapshot keeps its tempFeeds, and
// humFeeds is replaced with the given readings. A snapshot with neither
// layout is structurally broken and rejected.
func Humidity(doc *snapshot.Document, humFeed []feed.RawReading) error {
	switch {
	case len(doc.Feeds) > 0:
		doc.TempFeeds = doc.Feeds
		doc.Feeds = nil
	case len(doc.TempFeeds) > 0:
		// Already dual-channel.
	default:
		return fmt.Errorf("snapshot has neither feeds nor tempFeeds")
	}
	doc.HumFeeds = humFeed
	return nil
}
