package render

import (
	"encoding/json"
	"net/http"
	"sharelend/core"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	if err := enc.Encode(H{"data": v}); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// Error write error
func Error(w http.ResponseWriter, statusCode, errCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	enc := json.NewEncoder(w)
	if err := enc.Encode(H{"code": errCode, "msg": err.Error()}); err != nil {
		logrus.WithError(err).Errorln("render error")
	}
}

// Err write err with the status its error code maps to
func Err(w http.ResponseWriter, err error) {
	code, ok := errors.Cause(err).(core.ErrorCode)
	if !ok {
		Error(w, http.StatusInternalServerError, int(core.ErrUnknown), err)
		return
	}

	Error(w, statusOf(code), int(code), err)
}

func statusOf(code core.ErrorCode) int {
	switch code {
	case core.ErrBankNotFound, core.ErrAccountNotFound:
		return http.StatusNotFound
	case core.ErrInvalidAmount, core.ErrInvalidMarginRequirementType, core.ErrInvalidPriceBias, core.ErrGroupMismatch:
		return http.StatusBadRequest
	case core.ErrSnapshotNotReady, core.ErrPriceNotFound:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, -1, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, -1, err)
}
