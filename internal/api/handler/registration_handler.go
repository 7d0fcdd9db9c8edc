package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"bijles-engels/backend/internal/dto"
	"bijles-engels/backend/internal/model"
	"bijles-engels/backend/internal/service"
	"bijles-engels/backend/pkg/response"
)

// RegistrationHandler 报名模块 HTTP 处理器
type RegistrationHandler struct {
	registrationSvc service.RegistrationService
}

// NewRegistrationHandler 创建 RegistrationHandler
func NewRegistrationHandler(registrationSvc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationSvc: registrationSvc}
}

// CreateRegistration 提交报名
// POST /api/v1/registrations
func (h *RegistrationHandler) CreateRegistration(c *gin.Context) {
	var req dto.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.registrationSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleRegistrationError(c, err)
		return
	}

	response.Created(c, result)
}

// ListRegistrations 获取全部报名（管理员）
// GET /api/v1/registrations
func (h *RegistrationHandler) ListRegistrations(c *gin.Context) {
	result, err := h.registrationSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// ListMyRegistrations 获取我的报名
// GET /api/v1/registrations/mine
func (h *RegistrationHandler) ListMyRegistrations(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.registrationSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// ListPendingRegistrations 获取待审批报名（管理员审批队列）
// GET /api/v1/registrations/pending
func (h *RegistrationHandler) ListPendingRegistrations(c *gin.Context) {
	result, err := h.registrationSvc.ListPending(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// GetRegistration 获取报名详情（本人或管理员）
// GET /api/v1/registrations/:id
func (h *RegistrationHandler) GetRegistration(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "报名ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.registrationSvc.GetByID(c.Request.Context(), id, userID, role)
	if err != nil {
		h.handleRegistrationError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateRegistration 编辑报名（仅本人；状态退回 pending）
// PUT /api/v1/registrations/:id
func (h *RegistrationHandler) UpdateRegistration(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "报名ID不能为空")
		return
	}

	var req dto.UpdateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.registrationSvc.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleRegistrationError(c, err)
		return
	}

	response.OK(c, result)
}

// DecideRegistration 审批报名（管理员）
// PUT /api/v1/registrations/:id/status
func (h *RegistrationHandler) DecideRegistration(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "报名ID不能为空")
		return
	}

	var req dto.DecideRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.registrationSvc.Decide(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleRegistrationError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteRegistration 取消/删除报名（本人或管理员）
// DELETE /api/v1/registrations/:id
func (h *RegistrationHandler) DeleteRegistration(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "报名ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.registrationSvc.Delete(c.Request.Context(), id, userID, role); err != nil {
		h.handleRegistrationError(c, err)
		return
	}

	response.OK(c, nil)
}

// CheckSlot 选择校验：判断候选时段能否加入当前选择
// POST /api/v1/registrations/check-slot
func (h *RegistrationHandler) CheckSlot(c *gin.Context) {
	var req dto.CheckSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.registrationSvc.CheckSlot(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// handleRegistrationError 统一处理报名模块业务错误
func (h *RegistrationHandler) handleRegistrationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRegistrationNotFound):
		response.NotFound(c, 14001, "报名记录不存在")
	case errors.Is(err, service.ErrNotRegistrationOwner):
		response.Forbidden(c, 14002, "无权操作他人的报名记录")
	case errors.Is(err, service.ErrEmptySlotSelection):
		response.BadRequest(c, 14003, "未选择任何时段")
	case errors.Is(err, service.ErrDayLimitExceeded):
		response.BadRequest(c, 14004, "单日可选时段数超出上限")
	case errors.Is(err, model.ErrInvalidSlot):
		response.BadRequest(c, 14005, "时段 key 非法")
	case errors.Is(err, service.ErrInvalidDecision):
		response.BadRequest(c, 14006, "审批结论取值非法")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/registration_handler.go
