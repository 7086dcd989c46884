package helper

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"news-portal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"go.uber.org/zap"
)

const (
	textError = `error`
	textOk    = `ok`
)

// ResponseHelper ...
type ResponseHelper struct {
	C          *gin.Context
	HTTPStatus int
	Status     string
	Message    interface{}
	Data       interface{}
	Code       int
	CodeType   string
}

// HTTPHelper writes every response in the {code, code_type, code_message,
// data} envelope.
type HTTPHelper struct {
	Validate     *validator.Validate
	Translator   ut.Translator
	Log          *zap.Logger
	DefaultLimit int
}

// NewHTTPHelper hooks English translations and json field names into gin's
// validator so binding errors read like the request body.
func NewHTTPHelper(log *zap.Logger, defaultLimit int) *HTTPHelper {
	h := &HTTPHelper{Log: log, DefaultLimit: defaultLimit}

	locale := en.New()
	uni := ut.New(locale, locale)
	h.Translator, _ = uni.GetTranslator("en")

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		h.Validate = v
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
		if err := en_translations.RegisterDefaultTranslations(v, h.Translator); err != nil {
			log.Warn("validator translations not registered", zap.Error(err))
		}
	}
	return h
}

// StatusFor maps a service error onto an HTTP status and a code type.
func (u *HTTPHelper) StatusFor(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, `success`
	case errors.Is(err, models.ErrInvalidArgument),
		errors.Is(err, models.ErrWeakPassword),
		errors.Is(err, models.ErrReferenceNotFound):
		return http.StatusBadRequest, `badRequest`
	case errors.Is(err, models.ErrInvalidToken),
		errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, `unAuthorized`
	case errors.Is(err, models.ErrPermissionDenied):
		return http.StatusForbidden, `forbidden`
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, `notFound`
	case errors.Is(err, models.ErrDuplicateIdentity),
		errors.Is(err, models.ErrConflict):
		return http.StatusConflict, `conflict`
	}
	return http.StatusInternalServerError, `internalError`
}

// SendServiceError answers with the status err maps to. Unknown errors are
// logged and replaced by a generic message.
func (u *HTTPHelper) SendServiceError(c *gin.Context, err error) {
	status, codeType := u.StatusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		u.Log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = "internal server error"
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}

	u.SendError(c, status, message, u.EmptyJsonMap(), codeType)
}

// SendBindError reports a failed ShouldBind call.
func (u *HTTPHelper) SendBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		u.SendValidationError(c, verrs)
		return
	}
	u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, httpStatus int, status string, message interface{}, data interface{}, codeType string) ResponseHelper {
	return ResponseHelper{C: c, HTTPStatus: httpStatus, Status: status, Message: message, Data: data, Code: httpStatus, CodeType: codeType}
}

// SendError ...
// Send error response to consumers.
func (u *HTTPHelper) SendError(c *gin.Context, httpStatus int, message string, data interface{}, codeType string) {
	u.SendResponse(u.SetResponse(c, httpStatus, textError, message, data, codeType))
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) {
	u.SendError(c, http.StatusBadRequest, message, data, `badRequest`)
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := Underscore(err.Field())
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	u.SendResponse(u.SetResponse(c, http.StatusBadRequest, textError, errorResponse, u.EmptyJsonMap(), `validationError`))
}

// SendUnauthorizedError ...
// Send unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string, data interface{}) {
	c.Header("WWW-Authenticate", "Bearer")
	u.SendError(c, http.StatusUnauthorized, message, data, `unAuthorized`)
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) {
	u.SendResponse(u.SetResponse(c, http.StatusOK, textOk, message, data, `success`))
}

// SendCreated answers 201 with the new resource.
func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) {
	u.SendResponse(u.SetResponse(c, http.StatusCreated, textOk, message, data, `created`))
}

// SendList answers with a page of items and its paging block.
func (u *HTTPHelper) SendList(c *gin.Context, message string, items interface{}, page models.Page, total int64) {
	u.SendSuccess(c, message, map[string]interface{}{
		"items":      items,
		"pagination": u.GeneratePaging(c, page, total),
	})
}

// SendResponse ...
// Send response
func (u *HTTPHelper) SendResponse(res ResponseHelper) {
	if s, ok := res.Message.(string); ok && len(s) == 0 {
		res.Message = `success`
	}
	if res.Data == nil {
		res.Data = u.EmptyJsonMap()
	}

	res.C.JSON(res.HTTPStatus, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// ParseID reads a positive numeric path parameter. It answers 400 itself
// and returns false when the value is not usable.
func (u *HTTPHelper) ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		u.SendBadRequest(c, "invalid "+name, u.EmptyJsonMap())
		return 0, false
	}
	return uint(id), true
}

// GetPage reads skip and limit from the query string. Range checks are left
// to the service so every caller reports them the same way.
func (u *HTTPHelper) GetPage(c *gin.Context) (models.Page, error) {
	page := models.Page{Skip: 0, Limit: u.DefaultLimit}

	if raw := c.Query("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return page, fmt.Errorf("%w: skip must be an integer", models.ErrInvalidArgument)
		}
		page.Skip = v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return page, fmt.Errorf("%w: limit must be an integer", models.ErrInvalidArgument)
		}
		page.Limit = v
	}
	return page, nil
}

// get pagination URL
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, skip, limit int) string {
	r := c.Request
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	q := url.Values{}
	for k, v := range r.URL.Query() {
		q[k] = v
	}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	return scheme + "://" + r.Host + r.URL.Path + "?" + q.Encode()
}

// Set paginantion response
func (u *HTTPHelper) GeneratePaging(c *gin.Context, page models.Page, totalRecord int64) map[string]interface{} {
	total := int(totalRecord)
	limit := page.Limit
	if limit < 1 {
		limit = 1
	}

	prevURL, nextURL, firstURL, lastURL := "", "", "", ""

	lastSkip := 0
	if total > 0 {
		lastSkip = ((total - 1) / limit) * limit
	}

	if page.Skip > 0 {
		prev := page.Skip - limit
		if prev < 0 {
			prev = 0
		}
		prevURL = u.GetPagingUrl(c, prev, limit)
		firstURL = u.GetPagingUrl(c, 0, limit)
	}
	if page.Skip+limit < total {
		nextURL = u.GetPagingUrl(c, page.Skip+limit, limit)
		lastURL = u.GetPagingUrl(c, lastSkip, limit)
	}

	links := map[string]interface{}{
		"previous": prevURL,
		"next":     nextURL,
		"first":    firstURL,
		"last":     lastURL,
	}

	return map[string]interface{}{
		"total_records": total,
		"skip":          page.Skip,
		"limit":         limit,
		"links":         links,
	}
}
