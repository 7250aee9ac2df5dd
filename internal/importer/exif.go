package importer

import (
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// ExifDate extracts the capture date from a photo's EXIF block. Used as a
// fallback when the export metadata carries no timestamp; RAW-adjacent
// formats without EXIF simply report false.
func ExifDate(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return "", false
	}

	tm, err := x.DateTime()
	if err != nil {
		return "", false
	}

	return tm.Format("2006-01-02"), true
}
