package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/support2-byte/Consolidate-sub000/internal/apperr"
	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/http/handlers"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
	"github.com/support2-byte/Consolidate-sub000/internal/service/status"
)

type stubStatusUsecase struct {
	setFn func(ctx context.Context, orderID, receiverID int64, rawStatus string, opts status.Options) (*status.Snapshot, error)
}

func (s *stubStatusUsecase) SetReceiverStatus(ctx context.Context, orderID, receiverID int64, rawStatus string, opts status.Options) (*status.Snapshot, error) {
	return s.setFn(ctx, orderID, receiverID, rawStatus, opts)
}

func TestStatusHandler_Set_OK(t *testing.T) {
	t.Parallel()

	uc := &stubStatusUsecase{
		setFn: func(_ context.Context, orderID, receiverID int64, rawStatus string, opts status.Options) (*status.Snapshot, error) {
			require.EqualValues(t, 1, orderID)
			require.EqualValues(t, 10, receiverID)
			require.Equal(t, "Shipment In Transit", rawStatus)
			require.True(t, opts.ForceRecalcEta)
			require.Equal(t, "desk", opts.Actor)
			return &status.Snapshot{
				Receiver: domain.Receiver{ID: 10, OrderID: 1, Status: domain.StageInTransit},
				Order:    domain.Order{ID: 1, Status: domain.StageInTransit},
			}, nil
		},
	}
	h := handlers.NewStatusHandler(logx.Nop(), uc)

	body := `{"status":"Shipment In Transit","force_recalc_eta":true}`
	req := httptest.NewRequest(http.MethodPut, "/orders/1/receivers/10/status", strings.NewReader(body))
	req.Header.Set("X-Actor", "desk")
	req = withURLParams(req, map[string]string{"orderID": "1", "receiverID": "10"})
	rr := httptest.NewRecorder()

	h.Set(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), domain.StageInTransit)
}

func TestStatusHandler_Set_UnknownStatus(t *testing.T) {
	t.Parallel()

	h := handlers.NewStatusHandler(logx.Nop(), &stubStatusUsecase{
		setFn: func(context.Context, int64, int64, string, status.Options) (*status.Snapshot, error) {
			return nil, apperr.Validation("status", "unknown status")
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/orders/1/receivers/10/status", strings.NewReader(`{"status":"warp"}`))
	req = withURLParams(req, map[string]string{"orderID": "1", "receiverID": "10"})
	rr := httptest.NewRecorder()

	h.Set(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "unknown status")
}

func TestStatusHandler_Set_NotFound(t *testing.T) {
	t.Parallel()

	h := handlers.NewStatusHandler(logx.Nop(), &stubStatusUsecase{
		setFn: func(context.Context, int64, int64, string, status.Options) (*status.Snapshot, error) {
			return nil, apperr.NotFound
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/orders/1/receivers/99/status", strings.NewReader(`{"status":"Pending"}`))
	req = withURLParams(req, map[string]string{"orderID": "1", "receiverID": "99"})
	rr := httptest.NewRecorder()

	h.Set(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}
