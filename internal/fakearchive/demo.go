package fakearchive

import "fmt"

// Demo returns a small seeded archive with user "demo" / "demo". Each
// bucket mixes images with a video and a document.
func Demo() Options {
	months := []struct{ month, year string }{
		{"october", "2024"},
		{"september", "2024"},
		{"december", "2023"},
	}
	opts := Options{
		Users: map[string]string{"demo": "demo"},
		Files: map[string][]byte{},
	}
	id := int64(1)
	for _, m := range months {
		b := Bucket{Month: m.month, Year: m.year}
		for n := 1; n <= 4; n++ {
			kind, ext := "image", "jpg"
			switch n {
			case 3:
				kind, ext = "video", "mp4"
			case 4:
				kind, ext = "document", "pdf"
			}
			name := fmt.Sprintf("%s/%s/%03d.%s", m.year, m.month, id, ext)
			b.Items = append(b.Items, Item{
				Filepath:     "/files/" + name,
				ID:           id,
				MediaType:    kind,
				MetadataDate: fmt.Sprintf("%s %d, %s", m.month, n, m.year),
			})
			opts.Files[name] = []byte(fmt.Sprintf("fake %s payload %d", kind, id))
			id++
		}
		opts.Buckets = append(opts.Buckets, b)
	}
	return opts
}
