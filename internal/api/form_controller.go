package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/service"
	"github.com/gin-gonic/gin"
)

// 列表分页默认值
const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// FormController 表单控制器
// 集合端点 /api/forms 按 (HTTP 动词, id, action, fieldId) 查询参数分发,
// 每个分支独立返回,不存在隐式贯穿
type FormController struct {
	formService service.FormService
}

// NewFormController 创建表单控制器
func NewFormController(formService service.FormService) *FormController {
	return &FormController{
		formService: formService,
	}
}

// handleServiceError 将服务层错误映射为 HTTP 状态码和响应信封
func (c *FormController) handleServiceError(ctx *gin.Context, err error, operation string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		Fail(ctx, http.StatusBadRequest, "validation failed", validationErr.Violations())
	case errors.Is(err, service.ErrFormNotFound):
		Fail(ctx, http.StatusNotFound, "form not found", nil)
	case errors.Is(err, service.ErrFieldNotFound):
		Fail(ctx, http.StatusNotFound, "field not found", nil)
	default:
		Fail(ctx, http.StatusInternalServerError, "failed to "+operation, err.Error())
	}
}

// Create 创建表单
// POST /api/forms
func (c *FormController) Create(ctx *gin.Context) {
	var req service.CreateFormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Fail(ctx, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	req.CreatedBy = ctx.GetHeader("X-Owner-ID")

	form, err := c.formService.Create(ctx.Request.Context(), &req)
	if err != nil {
		c.handleServiceError(ctx, err, "create form")
		return
	}

	Created(ctx, form)
}

// Get 读取分支
// GET /api/forms?id= 获取单个;?q= 搜索;否则按 limit/offset 分页列表
func (c *FormController) Get(ctx *gin.Context) {
	if id := ctx.Query("id"); id != "" {
		c.getOne(ctx, id)
		return
	}
	if term := ctx.Query("q"); term != "" {
		c.search(ctx, term)
		return
	}
	c.list(ctx)
}

func (c *FormController) getOne(ctx *gin.Context, id string) {
	form, err := c.formService.Get(ctx.Request.Context(), id)
	if err != nil {
		c.handleServiceError(ctx, err, "get form")
		return
	}
	Success(ctx, form)
}

func (c *FormController) list(ctx *gin.Context) {
	limit := parseIntQuery(ctx, "limit", defaultListLimit)
	offset := parseIntQuery(ctx, "offset", 0)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	forms, total, err := c.formService.List(ctx.Request.Context(), limit, offset)
	if err != nil {
		c.handleServiceError(ctx, err, "list forms")
		return
	}
	Success(ctx, ListFormsData{Forms: forms, Total: total})
}

func (c *FormController) search(ctx *gin.Context, term string) {
	ownerID := ctx.Query("ownerId")
	forms, err := c.formService.Search(ctx.Request.Context(), term, ownerID)
	if err != nil {
		c.handleServiceError(ctx, err, "search forms")
		return
	}
	Success(ctx, forms)
}

// Update 更新分支
// PUT /api/forms?id= 整体部分更新;action=addField 追加字段;
// action=updateField&fieldId= 更新字段
func (c *FormController) Update(ctx *gin.Context) {
	id := ctx.Query("id")
	if id == "" {
		Fail(ctx, http.StatusBadRequest, "missing id parameter", nil)
		return
	}

	switch action := ctx.Query("action"); action {
	case "":
		c.updateForm(ctx, id)
	case "addField":
		c.addField(ctx, id)
	case "updateField":
		c.updateField(ctx, id)
	default:
		Fail(ctx, http.StatusBadRequest, "unknown action: "+action, nil)
	}
}

func (c *FormController) updateForm(ctx *gin.Context, id string) {
	var patch model.FormPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		Fail(ctx, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	form, err := c.formService.Update(ctx.Request.Context(), id, &patch)
	if err != nil {
		c.handleServiceError(ctx, err, "update form")
		return
	}
	Success(ctx, form)
}

func (c *FormController) addField(ctx *gin.Context, id string) {
	var field model.FormField
	if err := ctx.ShouldBindJSON(&field); err != nil {
		Fail(ctx, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	form, err := c.formService.AddField(ctx.Request.Context(), id, field)
	if err != nil {
		c.handleServiceError(ctx, err, "add field")
		return
	}
	Success(ctx, form)
}

func (c *FormController) updateField(ctx *gin.Context, id string) {
	fieldID := ctx.Query("fieldId")
	if fieldID == "" {
		Fail(ctx, http.StatusBadRequest, "missing fieldId parameter", nil)
		return
	}

	var patch model.FieldPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		Fail(ctx, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	form, err := c.formService.UpdateField(ctx.Request.Context(), id, fieldID, &patch)
	if err != nil {
		c.handleServiceError(ctx, err, "update field")
		return
	}
	Success(ctx, form)
}

// Delete 删除分支
// DELETE /api/forms?id= 删除表单;action=removeField&fieldId= 移除字段
func (c *FormController) Delete(ctx *gin.Context) {
	id := ctx.Query("id")
	if id == "" {
		Fail(ctx, http.StatusBadRequest, "missing id parameter", nil)
		return
	}

	switch action := ctx.Query("action"); action {
	case "":
		c.deleteForm(ctx, id)
	case "removeField":
		c.removeField(ctx, id)
	default:
		Fail(ctx, http.StatusBadRequest, "unknown action: "+action, nil)
	}
}

func (c *FormController) deleteForm(ctx *gin.Context, id string) {
	if err := c.formService.Delete(ctx.Request.Context(), id); err != nil {
		c.handleServiceError(ctx, err, "delete form")
		return
	}
	SuccessMessage(ctx, "form deleted")
}

func (c *FormController) removeField(ctx *gin.Context, id string) {
	fieldID := ctx.Query("fieldId")
	if fieldID == "" {
		Fail(ctx, http.StatusBadRequest, "missing fieldId parameter", nil)
		return
	}

	form, err := c.formService.RemoveField(ctx.Request.Context(), id, fieldID)
	if err != nil {
		c.handleServiceError(ctx, err, "remove field")
		return
	}
	Success(ctx, form)
}

func parseIntQuery(ctx *gin.Context, key string, fallback int) int {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
