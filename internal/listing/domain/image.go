package domain

// AttachUpload folds an upload result into the listing's image attribute.
// A nil upload leaves the existing image untouched; a present upload
// replaces it wholesale, so URL and Filename are always set together.
func AttachUpload(listing *Listing, upload *Upload) {
	if upload == nil {
		return
	}
	listing.Image = &Image{
		URL:      upload.URL,
		Filename: upload.Filename,
	}
}
