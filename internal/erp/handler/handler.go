package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/Unload-CM/dmc-erp/internal/erp/sse"
	"github.com/Unload-CM/dmc-erp/internal/erp/storage"
	"github.com/Unload-CM/dmc-erp/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handlers 핸들러 모음
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Inventory  *InventoryHandler
	Production *ProductionHandler
	Purchase   *PurchaseHandler
	Partner    *PartnerHandler
	Shipping   *ShippingHandler
	Settings   *SettingsHandler
	Backup     *BackupHandler
	Dashboard  *DashboardHandler
	SSE        *SSEHandler
}

// NewHandlers 핸들러 생성
func NewHandlers(svc *service.Services, hub *sse.Hub, logger *zap.Logger) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Inventory:  NewInventoryHandler(svc.Inventory),
		Production: NewProductionHandler(svc.Production),
		Purchase:   NewPurchaseHandler(svc.Procurement),
		Partner:    NewPartnerHandler(svc.Partner),
		Shipping:   NewShippingHandler(svc.Shipping),
		Settings:   NewSettingsHandler(svc.Settings),
		Backup:     NewBackupHandler(svc.Backup),
		Dashboard:  NewDashboardHandler(svc.Dashboard, svc.Setup, logger),
		SSE:        NewSSEHandler(hub),
	}
}

func init() {
	// validation errors report the json (or form) name of the field
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return ""
		})
	}
}

// Response 공통 응답 구조
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse 목록 응답 구조
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination 페이지 정보
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// Error codes. The HTTP status is code/100.
const (
	CodeBadRequest        = 40000
	CodeInvalidInput      = 40001
	CodeUnauthorized      = 40100
	CodeForbidden         = 40300
	CodeNotFound          = 40400
	CodeConflict          = 40900
	CodeDuplicate         = 40901
	CodeInternal          = 50000
	CodeCollectionMissing = 50301
)

// Success 성공 응답
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 생성 성공 응답
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// List 목록 응답
func List(c *gin.Context, items interface{}, total int64, q service.ListQuery) {
	page, size := q.Paging()
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   size,
			Total:      total,
			TotalPages: (total + int64(size) - 1) / int64(size),
		},
	})
}

// Error 에러 응답
func Error(c *gin.Context, code int, message string) {
	ErrorWithData(c, code, message, nil)
}

// ErrorWithData 에러 응답 (상세 포함)
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = http.StatusInternalServerError
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// BadRequest 파라미터 오류
func BadRequest(c *gin.Context, message string) {
	Error(c, CodeBadRequest, message)
}

// Unauthorized 인증 실패
func Unauthorized(c *gin.Context, message string) {
	Error(c, CodeUnauthorized, message)
}

// Forbidden 권한 없음
func Forbidden(c *gin.Context, message string) {
	Error(c, CodeForbidden, message)
}

// NotFound 리소스 없음
func NotFound(c *gin.Context, message string) {
	Error(c, CodeNotFound, message)
}

// InternalError 서버 오류
func InternalError(c *gin.Context, message string) {
	Error(c, CodeInternal, message)
}

// GetUserID 컨텍스트에서 사용자 ID 조회
func GetUserID(c *gin.Context) string {
	return c.GetString(middleware.KeyUserID)
}

// FieldError 입력 검증 실패 항목
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// bindJSON binds the body and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		invalidInput(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters and answers 400 on failure.
func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		invalidInput(c, err)
		return false
	}
	return true
}

func invalidInput(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		ErrorWithData(c, CodeInvalidInput, "입력값이 올바르지 않습니다", gin.H{"fields": fields})
		return
	}
	// malformed JSON or a value of the wrong type
	BadRequest(c, "요청 형식이 올바르지 않습니다: "+err.Error())
}

// handleError maps service and store errors onto the response envelope.
func handleError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var missing *repository.CollectionMissingError
	switch {
	case errors.As(err, &verr):
		ErrorWithData(c, CodeBadRequest, verr.Message, gin.H{"field": verr.Field})
	case errors.As(err, &missing):
		Error(c, CodeCollectionMissing,
			"데이터 테이블 "+missing.Collection+" 이(가) 없습니다. `dmc-erp migrate up` 을 실행하세요")
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "대상을 찾을 수 없습니다")
	case errors.Is(err, storage.ErrUnavailable):
		NotFound(c, "백업 파일을 내려받을 수 없습니다")
	case errors.Is(err, service.ErrInvalidTransition):
		Error(c, CodeConflict, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		Error(c, CodeDuplicate, "이미 가입된 이메일입니다")
	case errors.Is(err, repository.ErrDuplicateKey):
		Error(c, CodeDuplicate, "이미 존재하는 값입니다")
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, "이메일 또는 비밀번호가 올바르지 않습니다")
	default:
		_ = c.Error(err)
		InternalError(c, "서버 오류가 발생했습니다")
	}
}
