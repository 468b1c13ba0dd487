package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/response"
)

// bindFailed 请求绑定或校验失败，返回不合法字段列表
func bindFailed(c *gin.Context, err error) {
	response.ValidationFailed(c, bindErrorFields(err))
}

func bindErrorFields(err error) []string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]string, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, fe.Field())
		}
		return fields
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []string{typeErr.Field}
	}
	return []string{"body"}
}

// respondError 按业务错误分类输出通用响应，code 为模块业务码
// 各模块 handleXxxError 未单独处理的错误走这里
func respondError(c *gin.Context, code int, err error) {
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	switch appErr.Kind {
	case pkgerrors.KindValidation:
		response.ErrorWithDetails(c, http.StatusBadRequest, code, appErr.Message,
			response.FieldErrors{Fields: appErr.Fields})
	case pkgerrors.KindNotFound:
		response.NotFound(c, code, appErr.Message)
	case pkgerrors.KindConflict:
		response.Conflict(c, code, appErr.Message)
	case pkgerrors.KindInvalidState:
		response.UnprocessableEntity(c, code, appErr.Message)
	case pkgerrors.KindDependency:
		_ = c.Error(err)
		response.DependencyError(c)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
