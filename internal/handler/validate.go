package handler

import (
	"net/http"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var contentValidator = newContentValidator()

// newContentValidator slot 태그(slug 형식 슬롯 이름)를 등록한 validator
func newContentValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		return domain.IsValidSlot(fl.Field().String())
	})
	return v
}

// bindAndValidate JSON 바인딩 후 validate 태그 검사. 실패 시 400 응답을 쓰고 false
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := contentValidator.Struct(req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}
