package assignment

import (
	"context"
	"time"

	"github.com/support2-byte/Consolidate-sub000/internal/apperr"
	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
)

type lineSource interface {
	GetCargoLine(ctx context.Context, cargoLineID int64) (*domain.CargoLine, error)
}

type ledgerSource interface {
	SumAssigned(ctx context.Context, cargoLineID int64) (domain.AssignedTotals, error)
	FragmentsFromLedger(ctx context.Context, cargoLineID int64) ([]domain.ContainerFragment, error)
}

type cargoCache interface {
	GetCachedCargoLine(ctx context.Context, cargoLineID int64) (*domain.CargoLine, error)
	CacheCargoLine(ctx context.Context, line *domain.CargoLine) error
}

// Reader serves cargo line reads: the denormalized row reconciled against
// the ledger, with a best-effort snapshot cache in front.
type Reader struct {
	lines            lineSource
	ledger           ledgerSource
	cache            cargoCache
	logger           logx.Logger
	operationTimeout time.Duration
}

// NewReader creates a cargo line Reader.
func NewReader(lines lineSource, ledger ledgerSource, cache cargoCache, logger logx.Logger, timeout time.Duration) *Reader {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Reader{lines: lines, ledger: ledger, cache: cache, logger: logger, operationTimeout: timeout}
}

// GetCargoLine returns a cargo line with its per-container breakdown
// rebuilt from the ledger. When the stored aggregates drift from the ledger
// fold, the ledger wins.
func (r *Reader) GetCargoLine(ctx context.Context, cargoLineID int64) (*domain.CargoLine, error) {
	ctx, cancel := context.WithTimeout(ctx, r.operationTimeout)
	defer cancel()

	if r.cache != nil {
		cached, err := r.cache.GetCachedCargoLine(ctx, cargoLineID)
		if err != nil {
			r.logger.Warn("cargo line cache read failed", logx.Err(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	line, err := r.lines.GetCargoLine(ctx, cargoLineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, apperr.NotFound
	}

	fragments, err := r.ledger.FragmentsFromLedger(ctx, cargoLineID)
	if err != nil {
		return nil, err
	}
	totals, err := r.ledger.SumAssigned(ctx, cargoLineID)
	if err != nil {
		return nil, err
	}

	if totals.Quantity != line.AssignedQuantity || !totals.Weight.Equal(line.AssignedWeight) {
		r.logger.Warn("cargo line aggregates drifted from ledger",
			logx.Int64("cargo_line_id", cargoLineID),
			logx.Int64("stored_quantity", line.AssignedQuantity),
			logx.Int64("ledger_quantity", totals.Quantity),
		)
		line.AssignedQuantity = totals.Quantity
		line.AssignedWeight = totals.Weight
	}
	line.Fragments = fragments
	line.RefreshRemaining()

	if r.cache != nil {
		if err := r.cache.CacheCargoLine(ctx, line); err != nil {
			r.logger.Warn("cargo line cache write failed", logx.Err(err))
		}
	}
	return line, nil
}
