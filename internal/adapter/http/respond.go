package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/adapter/http/middleware"
	domain "github.com/luckydevstar/custom-frame-sizes-sub010/internal/entity"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/logging"
)

// Validation errors must name fields as clients sent them, so the binding
// validator reports json tag names instead of Go struct field names.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// respondData renders the uniform success envelope.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondError translates the typed error taxonomy into the uniform error
// envelope. Anything unrecognized becomes a 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
		ue *domain.UpstreamError
	)

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "invalid_request",
				"message": ve.Reason,
				"field":   ve.Field,
			},
		})
	case errors.As(err, &nf):
		body := gin.H{"code": "not_found", "message": nf.Error(), "resource": nf.Resource}
		if nf.ID != "" {
			body["id"] = nf.ID
		}
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": body})
	case errors.As(err, &ue):
		middleware.ObserveUpstreamFailure(ue.Op)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "upstream_error",
				"message": ue.Message,
			},
		})
	default:
		logging.From(c).Error("unhandled error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "internal_error",
				"message": "internal server error",
			},
		})
	}
	_ = c.Error(err)
}

// bindError converts gin/validator binding failures into a ValidationError
// naming the first failing field.
func bindError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return domain.NewValidationError(fe.Field(), bindReason(fe))
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return domain.NewValidationError(ute.Field, "has the wrong type")
	}

	if errors.Is(err, io.EOF) {
		return domain.NewValidationError("body", "request body is required")
	}
	return domain.NewValidationError("body", "malformed JSON body")
}

func bindReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
