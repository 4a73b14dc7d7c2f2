package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipartOverhead leaves room for boundaries and headers around the image part.
const multipartOverhead = 1 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	images    services.ImageStore
}

func newUploadHandler(images services.ImageStore) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		images:    images,
	}
}

// uploadImage stores a single image sent as the multipart field "image"
// @Summary Upload image
// @Tags Upload
// @Accept multipart/form-data
// @Param image formData file true "jpg, jpeg, png or webp, at most 5MB"
// @Router /api/upload [post]
func (h uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageSize+multipartOverhead)
		if err := r.ParseMultipartForm(services.MaxImageSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(services.MaxImageSize))
				return
			}
			if errors.Is(err, http.ErrNotMultipart) {
				h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(r.Header.Get("Content-Type"), []string{"multipart/form-data"}))
				return
			}
			h.responder.WriteError(w, errs.NewBadRequestError("No file uploaded"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("image")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("No file uploaded"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, services.MaxImageSize+1))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contentType, err := services.CheckImage(header.Filename, data)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		stored, err := h.images.Save(r.Context(), services.NewImageName(header.Filename), data, contentType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("path", stored.RelativePath).Int("bytes", len(data)).Msg("Image uploaded")
		body := ok(stored.URL)
		body.Message = "Image uploaded successfully"
		body.RelativePath = stored.RelativePath
		h.responder.WriteJSON(w, body)
	}
}
