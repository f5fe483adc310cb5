package models

// ThumbnailJob asks the worker to derive the variants of an image node.
type ThumbnailJob struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// ThumbnailWidths are the variant widths derived for every image, largest
// first.
var ThumbnailWidths = []int{500, 250, 100}

// IsThumbnailWidth reports whether w is one of ThumbnailWidths.
func IsThumbnailWidth(w int) bool {
	for _, tw := range ThumbnailWidths {
		if tw == w {
			return true
		}
	}
	return false
}
