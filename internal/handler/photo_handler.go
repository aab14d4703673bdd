package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vishwam-chepuri/matching-app/internal/middleware"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/service"
	"go.uber.org/zap"
)

// fileFields are the multipart field names photo files are read from.
var fileFields = []string{"file", "file[]", "files", "files[]"}

type PhotoHandler struct {
	photoService *service.PhotoService
	log          *zap.Logger
}

func NewPhotoHandler(photoService *service.PhotoService, log *zap.Logger) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		log:          log,
	}
}

// Upload takes multipart files or base64 JSON. A single file answers with
// the photo itself; several answer with a batch report.
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	profileID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid profile ID")
	}

	var uploads []models.PhotoUpload
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		uploads, err = multipartUploads(c)
	} else {
		uploads, err = base64Uploads(c)
	}
	if err != nil {
		return badRequest(c, err.Error())
	}

	results, err := h.photoService.Upload(c.UserContext(), middleware.CurrentUser(c), profileID, uploads)
	if err != nil {
		return writeError(c, h.log, err)
	}

	if len(results) == 1 {
		if results[0].Err != nil {
			return writeError(c, h.log, results[0].Err)
		}
		return c.Status(fiber.StatusCreated).JSON(results[0].Photo)
	}

	resp := models.PhotoBatchResponse{
		Photos: []models.PhotoResponse{},
		Errors: []models.PhotoUploadError{},
	}
	for _, r := range results {
		if r.Err != nil {
			if statusFor(r.Err) == fiber.StatusInternalServerError {
				h.log.Error("photo upload failed", zap.String("filename", r.Filename), zap.Error(r.Err))
			}
			resp.Errors = append(resp.Errors, models.PhotoUploadError{Filename: r.Filename, Error: errorMessage(r.Err)})
			continue
		}
		resp.Photos = append(resp.Photos, *r.Photo)
	}

	status := fiber.StatusCreated
	if len(resp.Photos) == 0 {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(resp)
}

func (h *PhotoHandler) Delete(c *fiber.Ctx) error {
	profileID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid profile ID")
	}
	photoID, err := parseID(c, "photoId")
	if err != nil {
		return badRequest(c, "Invalid photo ID")
	}

	if err := h.photoService.Delete(c.UserContext(), middleware.CurrentUser(c), profileID, photoID); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func multipartUploads(c *fiber.Ctx) ([]models.PhotoUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.New("Invalid multipart form")
	}

	var files []*multipart.FileHeader
	for _, field := range fileFields {
		files = append(files, form.File[field]...)
	}

	positions, err := parsePositions(form.Value["position"], len(files))
	if err != nil {
		return nil, err
	}

	uploads := make([]models.PhotoUpload, 0, len(files))
	for i, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			uploads = append(uploads, models.PhotoUpload{
				Filename: fh.Filename,
				Err:      fmt.Errorf("failed to read upload %q: %w", fh.Filename, err),
			})
			continue
		}
		uploads = append(uploads, models.PhotoUpload{
			Data:        data,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Filename:    fh.Filename,
			Position:    positions[i],
		})
	}
	return uploads, nil
}

// parsePositions pairs position values with files one to one. A single
// value for several files is the position of the first, the rest follow.
// Without values every photo is appended after the existing ones.
func parsePositions(values []string, n int) ([]*int, error) {
	out := make([]*int, n)
	if len(values) == 0 || n == 0 {
		return out, nil
	}

	parsed := make([]int, len(values))
	for i, v := range values {
		p, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || p < 0 {
			return nil, fmt.Errorf("Invalid position %q", v)
		}
		parsed[i] = p
	}

	for i := range out {
		p := parsed[0] + i
		if len(parsed) == n {
			p = parsed[i]
		}
		out[i] = &p
	}
	return out, nil
}

// readFile reads at most one byte past the size limit so oversized files
// are still rejected by size.
func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, service.MaxPhotoSize+1))
}

func base64Uploads(c *fiber.Ctx) ([]models.PhotoUpload, error) {
	var req models.Base64PhotoBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errors.New("Invalid request body")
	}

	items := req.Photos
	if len(items) == 0 && req.Data != "" {
		items = []models.Base64PhotoRequest{req.Base64PhotoRequest}
	}

	uploads := make([]models.PhotoUpload, 0, len(items))
	for _, item := range items {
		upload, err := decodeBase64Photo(item)
		if err != nil {
			upload = models.PhotoUpload{Filename: item.Filename, Err: service.NewValidationError(err.Error())}
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

// decodeBase64Photo accepts raw base64 or a data URL. The data URL's media
// type is used when no content type was given.
func decodeBase64Photo(req models.Base64PhotoRequest) (models.PhotoUpload, error) {
	payload := strings.TrimSpace(req.Data)
	contentType := req.ContentType

	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		meta, data, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return models.PhotoUpload{}, errors.New("Invalid data URL")
		}
		if contentType == "" {
			contentType = strings.TrimSuffix(meta, ";base64")
		}
		payload = data
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return models.PhotoUpload{}, errors.New("Invalid base64 data")
	}

	return models.PhotoUpload{
		Data:        data,
		ContentType: contentType,
		Filename:    req.Filename,
		Position:    req.Position,
	}, nil
}
