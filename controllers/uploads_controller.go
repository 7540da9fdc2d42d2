package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	models "github.com/phillip/nonprofit-site-go/models"
)

var uploadFolders = []string{"events", "volunteer", "projects"}

// UploadImages stores every file of the multipart "images" field and returns
// the resulting metadata in order.
func UploadImages(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		if env.Images == nil {
			respondError(c, http.StatusServiceUnavailable, "image uploads are not configured")
			return
		}

		folder := c.DefaultPostForm("folder", "events")
		valid := false
		for _, f := range uploadFolders {
			if f == folder {
				valid = true
				break
			}
		}
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid upload folder",
				"details": gin.H{"allowed": uploadFolders},
			})
			return
		}

		// --- Handle file uploads ---
		form, err := c.MultipartForm()
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid form data")
			return
		}
		files := form.File["images"] // key must be "images"
		if len(files) == 0 {
			respondError(c, http.StatusBadRequest, "no images provided")
			return
		}

		ctx, cancel := withTimeout(c, providerTimeout)
		defer cancel()

		alt := strings.TrimSpace(c.PostForm("alt"))
		images := make([]models.ImageMeta, 0, len(files))
		for _, fileHeader := range files {
			file, err := fileHeader.Open()
			if err != nil {
				respondError(c, http.StatusInternalServerError, "failed to open file")
				return
			}

			img, err := env.Images.Upload(ctx, file, "nonprofit/"+folder)
			file.Close()
			if err != nil {
				env.Log.Error().Err(err).Str("file", fileHeader.Filename).Msg("image upload failed")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "image upload failed",
					"details": gin.H{"file": fileHeader.Filename},
				})
				return
			}
			img.Alt = alt
			images = append(images, img)
		}

		c.JSON(http.StatusCreated, images)
	}
}
