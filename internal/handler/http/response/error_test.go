package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/payroll"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/workflow"
	"github.com/stretchr/testify/assert"
)

func TestHandleError_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", shift.ErrShiftNotFound, http.StatusNotFound},
		{"conflict", workflow.ErrTradeNotPending, http.StatusConflict},
		{"time-off overlap is validation", workflow.ErrTimeOffOverlap, http.StatusUnprocessableEntity},
		{"negative net is validation", payroll.ErrNegativeNetPay, http.StatusUnprocessableEntity},
		{"open period exists", payroll.ErrOpenPeriodExists, http.StatusConflict},
		{"unknown error", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
