package archive

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MediaTypeImage is the only media type surfaced to callers of FetchMedia.
const MediaTypeImage = "image"

// Bucket is a month/year grouping of archived media.
//
// Key is a locally generated render key, regenerated on every fetch. It has
// no meaning to the server and must not be used for equality or caching;
// use Equal instead.
type Bucket struct {
	Key   string `json:"-"`
	Month string `json:"month"`
	Year  string `json:"year"`
}

// Equal compares buckets by their (month, year) identity.
func (b Bucket) Equal(other Bucket) bool {
	return b.Month == other.Month && b.Year == other.Year
}

// String renders the bucket as "month/year".
func (b Bucket) String() string {
	return b.Month + "/" + b.Year
}

// MediaItem is a single archived file. MetadataDate is an opaque display
// string and is never parsed.
type MediaItem struct {
	Filepath     string `json:"filepath"`
	ID           int64  `json:"id"`
	MediaType    string `json:"media_type"`
	MetadataDate string `json:"metadata_date"`
}

// IsImage reports whether the item is displayable.
func (m MediaItem) IsImage() bool {
	return m.MediaType == MediaTypeImage
}

// Credentials are the login inputs. They are only held for the duration of
// a login call.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// The wire* types use pointers so missing keys can be told apart from zero
// values. Every field the server documents is required.

type wireMetadata struct {
	Data *[]wireBucket `json:"data"`
}

type wireBucket struct {
	Month *string `json:"month"`
	Year  *string `json:"year"`
}

type wireMedia struct {
	Media *[]wireMediaItem `json:"media"`
}

type wireMediaItem struct {
	Filepath     *string `json:"filepath"`
	ID           *int64  `json:"id"`
	MediaType    *string `json:"media_type"`
	MetadataDate *string `json:"metadata_date"`
}

var errMissingField = errors.New("missing field")

func decodeBuckets(body []byte) ([]Bucket, error) {
	var raw wireMetadata
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if raw.Data == nil {
		return nil, fmt.Errorf("%w %q", errMissingField, "data")
	}
	buckets := make([]Bucket, 0, len(*raw.Data))
	for i, wb := range *raw.Data {
		switch {
		case wb.Month == nil:
			return nil, fmt.Errorf("data[%d]: %w %q", i, errMissingField, "month")
		case wb.Year == nil:
			return nil, fmt.Errorf("data[%d]: %w %q", i, errMissingField, "year")
		}
		buckets = append(buckets, Bucket{
			Key:   uuid.NewString(),
			Month: *wb.Month,
			Year:  *wb.Year,
		})
	}
	return buckets, nil
}

func decodeMedia(body []byte) ([]MediaItem, error) {
	var raw wireMedia
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if raw.Media == nil {
		return nil, fmt.Errorf("%w %q", errMissingField, "media")
	}
	items := make([]MediaItem, 0, len(*raw.Media))
	for i, wi := range *raw.Media {
		var missing string
		switch {
		case wi.Filepath == nil:
			missing = "filepath"
		case wi.ID == nil:
			missing = "id"
		case wi.MediaType == nil:
			missing = "media_type"
		case wi.MetadataDate == nil:
			missing = "metadata_date"
		}
		if missing != "" {
			return nil, fmt.Errorf("media[%d]: %w %q", i, errMissingField, missing)
		}
		items = append(items, MediaItem{
			Filepath:     *wi.Filepath,
			ID:           *wi.ID,
			MediaType:    *wi.MediaType,
			MetadataDate: *wi.MetadataDate,
		})
	}
	return items, nil
}

// FilterImages keeps only image items, preserving order.
func FilterImages(items []MediaItem) []MediaItem {
	out := make([]MediaItem, 0, len(items))
	for _, item := range items {
		if item.IsImage() {
			out = append(out, item)
		}
	}
	return out
}
