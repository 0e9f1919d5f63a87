package services

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YassineBen-Yahia/realestate-api/utils"
)

// makeFileHeader builds a real multipart.FileHeader by round-tripping a form
// through the HTTP machinery
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("images", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("Failed to parse multipart form: %v", err)
	}

	return req.MultipartForm.File["images"][0]
}

func TestS3ImageServiceUpload(t *testing.T) {
	mockS3 := NewMockS3Service()
	service := &S3ImageService{s3Service: mockS3}

	t.Run("Valid photo is uploaded", func(t *testing.T) {
		key, err := service.UploadImage(makeFileHeader(t, "front.png", []byte("png-bytes")))

		assert.NoError(t, err)
		assert.NotEmpty(t, key)
		assert.True(t, mockS3.FileExists(key))

		url, err := service.GetImageURL(key)
		assert.NoError(t, err)
		assert.Contains(t, url, key)
	})

	t.Run("Invalid format never reaches storage", func(t *testing.T) {
		mockS3.Clear()

		_, err := service.UploadImage(makeFileHeader(t, "floorplan.pdf", []byte("%PDF")))

		var uploadErr *utils.FileUploadError
		assert.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, "INVALID_FILE_FORMAT", uploadErr.Code)
		assert.Empty(t, mockS3.uploadedFiles)
	})
}

func TestS3ImageServiceDelete(t *testing.T) {
	mockS3 := NewMockS3Service()
	service := &S3ImageService{s3Service: mockS3}

	key, err := service.UploadImage(makeFileHeader(t, "back.jpg", []byte("jpg-bytes")))
	assert.NoError(t, err)

	assert.NoError(t, service.DeleteImage(key))
	assert.False(t, mockS3.FileExists(key))

	// Empty keys are a no-op on every operation
	assert.NoError(t, service.DeleteImage(""))
	url, err := service.GetImageURL("")
	assert.NoError(t, err)
	assert.Empty(t, url)
}

func TestImageServiceSingleton(t *testing.T) {
	mockS3 := NewMockS3Service()
	mockS3.SetAsMockForTesting()
	assert.Equal(t, S3Interface(mockS3), GetS3Service())

	service := InitImageService(mockS3)
	assert.Equal(t, service, GetImageService())
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", contentTypeFor("house.jpg"))
	assert.Equal(t, "image/jpeg", contentTypeFor("house.JPEG"))
	assert.Equal(t, "image/png", contentTypeFor("house.png"))
}
