package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/service"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/response"
)

// CertificateHandler 证书 HTTP 处理器
type CertificateHandler struct {
	certSvc service.CertificateService
}

// NewCertificateHandler 创建 CertificateHandler
func NewCertificateHandler(certSvc service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certSvc: certSvc}
}

// Issue 为已完成的分配颁发证书
// POST /api/v1/certificates
func (h *CertificateHandler) Issue(c *gin.Context) {
	var req dto.IssueCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	cert, err := h.certSvc.Issue(c.Request.Context(), &req)
	if err != nil {
		h.handleCertificateError(c, err)
		return
	}

	response.Created(c, cert)
}

// GetCertificate GET /api/v1/certificates/:id
func (h *CertificateHandler) GetCertificate(c *gin.Context) {
	cert, err := h.certSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCertificateError(c, err)
		return
	}

	response.OK(c, cert)
}

// ListByUser GET /api/v1/training/users/:id/certificates
func (h *CertificateHandler) ListByUser(c *gin.Context) {
	list, err := h.certSvc.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCertificateError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Verify 公开验证证书
// GET /api/v1/certificates/verify/:code
func (h *CertificateHandler) Verify(c *gin.Context) {
	result, err := h.certSvc.Verify(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleCertificateError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *CertificateHandler) handleCertificateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCertificateNotFound):
		response.NotFound(c, 17001, "证书不存在")
	case errors.Is(err, service.ErrCertificateExists):
		response.Conflict(c, 17002, "该分配已颁发证书")
	case errors.Is(err, service.ErrAssignmentIncomplete):
		response.UnprocessableEntity(c, 17003, "培训分配尚未完成，不能颁发证书")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 15001, "培训分配不存在")
	default:
		respondError(c, 17000, err)
	}
}
