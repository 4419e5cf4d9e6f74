package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/support2-byte/Consolidate-sub000/internal/apperr"
	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/http/handlers"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
)

type stubCargoUsecase struct {
	getFn func(ctx context.Context, cargoLineID int64) (*domain.CargoLine, error)
}

func (s *stubCargoUsecase) GetCargoLine(ctx context.Context, cargoLineID int64) (*domain.CargoLine, error) {
	return s.getFn(ctx, cargoLineID)
}

func TestCargoHandler_Get_OK(t *testing.T) {
	t.Parallel()

	uc := &stubCargoUsecase{
		getFn: func(_ context.Context, cargoLineID int64) (*domain.CargoLine, error) {
			require.EqualValues(t, 100, cargoLineID)
			return &domain.CargoLine{
				ID:               100,
				ReceiverID:       10,
				TotalQuantity:    100,
				AssignedQuantity: 40,
				AssignedWeight:   decimal.NewFromInt(80),
				Fragments: []domain.ContainerFragment{
					{ContainerID: 7, ContainerNumber: "CONT-7", AssignedQuantity: 40, RemainingQuantity: 60},
				},
			}, nil
		},
	}
	h := handlers.NewCargoHandler(logx.Nop(), uc)

	req := httptest.NewRequest(http.MethodGet, "/orders/1/cargo-lines/100", nil)
	req = withURLParams(req, map[string]string{"orderID": "1", "lineID": "100"})
	rr := httptest.NewRecorder()

	h.Get(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"remaining":60`)
	require.Contains(t, rr.Body.String(), "CONT-7")
}

func TestCargoHandler_Get_NotFound(t *testing.T) {
	t.Parallel()

	h := handlers.NewCargoHandler(logx.Nop(), &stubCargoUsecase{
		getFn: func(context.Context, int64) (*domain.CargoLine, error) {
			return nil, apperr.NotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/1/cargo-lines/404", nil)
	req = withURLParams(req, map[string]string{"orderID": "1", "lineID": "404"})
	rr := httptest.NewRecorder()

	h.Get(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}
