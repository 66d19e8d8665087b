package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/referly/internal/utils"
)

const (
	// QR images usually arrive inline as data URIs.
	maxQRCodeBody = 5 << 20

	qrObjectPrefix   = "qrcodes/"
	qrPresignExpires = 15 * time.Minute
)

var qrImageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type qrCodeResponse struct {
	QRCode *string `json:"qrCode"`
}

// GET /api/qrcode
// GetQRCode godoc
// @Summary Fetch the payment QR code
// @Tags QRCode
// @Produce json
// @Success 200 {object} qrCodeResponse
// @Router /api/qrcode [get]
func (h *Handler) GetQRCode(w http.ResponseWriter, r *http.Request) error {
	qr, err := h.store.GetQRCode(r.Context())
	if err != nil {
		return err
	}

	var payload *string
	if qr != nil {
		payload = qr.QRCode
	}

	utils.JSONResponse(w, http.StatusOK, qrCodeResponse{QRCode: payload})
	return nil
}

type setQRCodeRequest struct {
	QRCode string `json:"qrCode"`
}

// POST /api/qrcode
// SetQRCode godoc
// @Summary Replace the payment QR code
// @Tags QRCode
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body setQRCodeRequest true "QR payload (data URI or URL)"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /api/qrcode [post]
func (h *Handler) SetQRCode(w http.ResponseWriter, r *http.Request) error {
	var input setQRCodeRequest
	if err := decodeJSON(w, r, &input, maxQRCodeBody); err != nil {
		return err
	}

	payload := strings.TrimSpace(input.QRCode)
	if payload == "" {
		return ValidationError("QR code is required")
	}

	if err := h.store.SaveQRCode(r.Context(), payload); err != nil {
		return err
	}

	utils.Message(w, http.StatusOK, "QR code uploaded successfully")
	return nil
}

// DELETE /api/qrcode
// DeleteQRCode godoc
// @Summary Remove the payment QR code
// @Tags QRCode
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /api/qrcode [delete]
func (h *Handler) DeleteQRCode(w http.ResponseWriter, r *http.Request) error {
	if _, err := h.store.DeleteQRCodes(r.Context()); err != nil {
		return err
	}

	utils.Message(w, http.StatusOK, "QR code removed successfully")
	return nil
}

type presignQRCodeRequest struct {
	ContentType string `json:"contentType"`
}

type presignQRCodeResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

// POST /api/qrcode/presign
// PresignQRCodeUpload godoc
// @Summary Get a presigned URL to upload a QR image to object storage
// @Tags QRCode
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body presignQRCodeRequest true "Image content type"
// @Success 200 {object} presignQRCodeResponse
// @Failure 400 {object} utils.Payload
// @Failure 503 {object} utils.Payload
// @Router /api/qrcode/presign [post]
func (h *Handler) PresignQRCodeUpload(w http.ResponseWriter, r *http.Request) error {
	if h.objects == nil {
		return Unavailable("Object storage is not configured")
	}

	var input presignQRCodeRequest
	if err := decodeJSON(w, r, &input, maxJSONBody); err != nil {
		return err
	}

	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	ext, ok := qrImageExtensions[contentType]
	if !ok {
		return ValidationError("Unsupported image type")
	}

	key := qrObjectPrefix + uuid.NewString() + ext
	url, err := h.objects.PresignPut(r.Context(), key, contentType, qrPresignExpires)
	if err != nil {
		return err
	}

	utils.JSONResponse(w, http.StatusOK, presignQRCodeResponse{
		UploadURL: url,
		Key:       key,
		ExpiresIn: int(qrPresignExpires.Seconds()),
	})
	return nil
}

type completeQRCodeRequest struct {
	Key string `json:"key"`
}

type completeQRCodeResponse struct {
	Message string `json:"message"`
	QRCode  string `json:"qrCode"`
}

// POST /api/qrcode/complete
// CompleteQRCodeUpload godoc
// @Summary Point the payment QR code at an uploaded object
// @Tags QRCode
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body completeQRCodeRequest true "Object key returned by presign"
// @Success 200 {object} completeQRCodeResponse
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 503 {object} utils.Payload
// @Router /api/qrcode/complete [post]
func (h *Handler) CompleteQRCodeUpload(w http.ResponseWriter, r *http.Request) error {
	if h.objects == nil {
		return Unavailable("Object storage is not configured")
	}

	var input completeQRCodeRequest
	if err := decodeJSON(w, r, &input, maxJSONBody); err != nil {
		return err
	}

	key := strings.TrimSpace(input.Key)
	if !strings.HasPrefix(key, qrObjectPrefix) || len(key) == len(qrObjectPrefix) || strings.Contains(key, "..") {
		return ValidationError("Invalid object key")
	}

	exists, err := h.objects.ObjectExists(r.Context(), key)
	if err != nil {
		return err
	}
	if !exists {
		return NotFound("Uploaded file not found")
	}

	payload := h.objects.PublicURL(key)
	if err := h.store.SaveQRCode(r.Context(), payload); err != nil {
		return err
	}

	utils.JSONResponse(w, http.StatusOK, completeQRCodeResponse{
		Message: "QR code uploaded successfully",
		QRCode:  payload,
	})
	return nil
}
