package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/shashiranjanraj/vastra/pkg/ctx"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"github.com/shashiranjanraj/vastra/pkg/storage"
)

// maxUploadBytes caps product image uploads at 8 MB.
const maxUploadBytes = 8 << 20

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// UploadController stores product images on the configured storage disk
// (local in development, S3 in production) and returns their public URL.
// The returned URL goes into the product's image field.
type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// Image handles POST /api/uploads: a multipart form with an "image" part.
func (c *UploadController) Image(cc *ctx.Context) {
	if err := cc.R.ParseMultipartForm(maxUploadBytes); err != nil {
		cc.Error(http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := cc.R.FormFile("image")
	if err != nil {
		cc.Error(http.StatusBadRequest, "The image field is required.")
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	if !allowedImageExt[ext] {
		cc.Error(http.StatusBadRequest, "Unsupported image type")
		return
	}
	if header.Size > maxUploadBytes {
		cc.Error(http.StatusBadRequest, "Image exceeds the 8 MB limit")
		return
	}

	name, err := randomName(ext)
	if err != nil {
		cc.FromErr(err)
		return
	}

	key := "products/" + name
	if err := storage.PutStream(key, io.LimitReader(file, maxUploadBytes)); err != nil {
		cc.FromErr(err)
		return
	}

	cc.Created("Image uploaded successfully", response.Fields{
		"url": storage.URL(key),
		"key": key,
	})
}

// randomName builds a collision-resistant object name: unix-nanos plus
// 8 random bytes, keeping the original extension.
func randomName(ext string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), hex.EncodeToString(buf), ext), nil
}
