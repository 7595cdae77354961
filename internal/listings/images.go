package listings

import (
	"encoding/base64"
	"io"
	"mime/multipart"

	"zhilfond/server/internal/apperrors"
	"zhilfond/server/internal/models"
)

// MaxImagesPerListing caps uploads server-side; the form enforces the
// same limit client-side.
const MaxImagesPerListing = 10

// Upload is one file taken off the multipart form.
type Upload struct {
	Filename string
	Data     []byte
}

// ReadMultipart drains the uploaded file headers into memory, keeping
// their submission order.
func ReadMultipart(headers []*multipart.FileHeader) ([]Upload, error) {
	uploads := make([]Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, Upload{Filename: header.Filename, Data: data})
	}
	return uploads, nil
}

// Ingest turns the ordered uploads into image rows. Zero-length entries
// are dropped; the first surviving image is the main one and sort order
// follows upload order.
func Ingest(uploads []Upload) ([]models.ListingImage, error) {
	images := make([]models.ListingImage, 0, len(uploads))
	for _, upload := range uploads {
		if len(upload.Data) == 0 {
			continue
		}
		images = append(images, models.ListingImage{
			Data:      upload.Data,
			Filename:  upload.Filename,
			IsMain:    len(images) == 0,
			SortOrder: len(images),
		})
	}
	if len(images) > MaxImagesPerListing {
		return nil, apperrors.NewValidation("images", "at most 10 images per listing")
	}
	return images, nil
}

// Render encodes the image for transport as a data URI. Output only,
// never parsed back.
func Render(img models.ListingImage) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img.Data)
}
