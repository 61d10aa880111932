package handler

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/service"
)

// imageField is the multipart form field carrying uploaded files.
const imageField = "image"

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// ImageHandler serves post images.
type ImageHandler struct {
	images        *service.ImageService
	maxUploadSize int64
	logger        zerolog.Logger
}

// NewImageHandler creates a new ImageHandler. maxUploadSize caps the whole
// multipart request body in bytes.
func NewImageHandler(images *service.ImageService, maxUploadSize int64, logger zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		images:        images,
		maxUploadSize: maxUploadSize,
		logger:        logger.With().Str("handler", "image").Logger(),
	}
}

// RegisterRoutes registers image routes.
func (h *ImageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/posts/{postId}/images", h.handleList)
	r.Post("/posts/{postId}/images", h.handleUpload)
	r.Get("/images/{imageId}", h.handleDownload)
}

func (h *ImageHandler) handleList(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	images, err := h.images.ListForPost(r.Context(), postID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, images)
}

func (h *ImageHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.logger, badRequest("upload exceeds size limit", strconv.FormatInt(tooLarge.Limit, 10)+" bytes"))
			return
		}
		writeError(w, h.logger, badRequest("malformed multipart body", err.Error()))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[imageField]
	if len(headers) == 0 {
		writeError(w, h.logger, badRequest("no files uploaded", "field "+imageField))
		return
	}

	files := make([]domain.ImageFile, 0, len(headers))
	for _, header := range headers {
		file, err := readUpload(header)
		if err != nil {
			writeError(w, h.logger, badRequest("cannot read uploaded file", header.Filename))
			return
		}
		files = append(files, file)
	}

	saved, err := h.images.SaveAll(r.Context(), postID, files)
	if err != nil {
		if len(saved) > 0 {
			h.logger.Warn().
				Int64("post_id", postID).
				Int("saved", len(saved)).
				Int("requested", len(files)).
				Msg("image batch partially saved")
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *ImageHandler) handleDownload(w http.ResponseWriter, r *http.Request) {
	imageID, err := pathID(r, "imageId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	image, err := h.images.GetImageData(r.Context(), imageID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": image.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(image.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image.Data)
}

// readUpload reads one multipart file fully into memory.
func readUpload(header *multipart.FileHeader) (domain.ImageFile, error) {
	f, err := header.Open()
	if err != nil {
		return domain.ImageFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.ImageFile{}, err
	}
	return domain.ImageFile{Name: header.Filename, Data: data}, nil
}
