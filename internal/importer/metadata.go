package importer

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// MediaMeta is the caption/timestamp/location looked up for one media file.
type MediaMeta struct {
	Caption   string
	Timestamp int64
	Location  string
}

// MetadataIndex maps a media file's base filename to its metadata.
type MetadataIndex map[string]MediaMeta

// exportPost mirrors the nested post structure of an Instagram data export.
// Field names cover both the current export layout and older dumps.
type exportPost struct {
	Title             string        `json:"title"`
	CreationTimestamp int64         `json:"creation_timestamp"`
	Location          string        `json:"location"`
	Media             []exportMedia `json:"media"`
}

type exportMedia struct {
	URI               string `json:"uri"`
	Title             string `json:"title"`
	CreationTimestamp int64  `json:"creation_timestamp"`
	Location          string `json:"location"`
}

// LoadMetadata builds the metadata index from an export's posts JSON file.
// A missing or unparseable file is non-fatal: the pipeline proceeds with an
// empty index and every photo simply has no caption or location.
func LoadMetadata(path string) MetadataIndex {
	index := MetadataIndex{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read export metadata, continuing without captions", "path", path, "error", err)
		}
		return index
	}

	posts, err := parsePosts(data)
	if err != nil {
		slog.Warn("Failed to parse export metadata, continuing without captions", "path", path, "error", err)
		return index
	}

	index = buildIndex(posts)
	slog.Debug("Loaded export metadata", "path", path, "entries", len(index))
	return index
}

// buildIndex flattens the nested post→media structure into a filename-keyed
// index. Media-level fields win over post-level fields when both exist.
func buildIndex(posts []exportPost) MetadataIndex {
	index := MetadataIndex{}
	for _, post := range posts {
		for _, media := range post.Media {
			if media.URI == "" {
				continue
			}
			meta := MediaMeta{
				Caption:   media.Title,
				Timestamp: media.CreationTimestamp,
				Location:  media.Location,
			}
			if meta.Caption == "" {
				meta.Caption = post.Title
			}
			if meta.Timestamp == 0 {
				meta.Timestamp = post.CreationTimestamp
			}
			if meta.Location == "" {
				meta.Location = post.Location
			}
			index[filepath.Base(media.URI)] = meta
		}
	}
	return index
}

// parsePosts accepts both a bare post array and the wrapped form some export
// versions use.
func parsePosts(data []byte) ([]exportPost, error) {
	var posts []exportPost
	if err := json.Unmarshal(data, &posts); err == nil {
		return posts, nil
	}

	var wrapped struct {
		Posts []exportPost `json:"posts"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Posts, nil
}

// millisThreshold splits epoch seconds from epoch milliseconds: anything
// above 10^12 cannot be a plausible seconds value.
const millisThreshold = int64(1e12)

// NormalizeTimestamp converts an export timestamp to an ISO calendar date.
// Values above 10^12 are treated as milliseconds, otherwise seconds. Zero
// yields an empty string.
func NormalizeTimestamp(ts int64) string {
	if ts == 0 {
		return ""
	}
	if ts > millisThreshold {
		ts /= 1000
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}
