// Package statement builds income statements for a user from the stored
// ledger and manual values.
package statement

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"eerr/eerr-dashboard/internal/aggregator"
	"eerr/eerr-dashboard/internal/batch"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/repository"
	"eerr/eerr-dashboard/internal/table"
	"eerr/eerr-dashboard/internal/textnorm"
)

// ErrNoData is returned when a statement is requested for a range that has
// neither bounds nor transactions to infer them from.
var ErrNoData = errors.New("no transactions to build a statement from")

// Store is the part of the repository the service reads.
type Store interface {
	ListTransactions(ctx context.Context, f repository.Filter) ([]models.Transaction, error)
	ManualValues(ctx context.Context, userID, sucursal string, periods []models.Period) (models.ManualValues, error)
	Branches(ctx context.Context, userID string) ([]string, error)
}

// Request selects the statement to build. Zero From/To are inferred from the
// transactions found.
type Request struct {
	UserID   string
	Sucursal string
	From     models.Period
	To       models.Period
}

// Service builds statements.
type Service struct {
	store             Store
	aggregator        *aggregator.Aggregator
	logger            logging.Logger
	consolidatedLabel string
}

// Option customises a Service.
type Option func(*Service)

// WithConsolidatedLabel names the statement produced by Consolidated.
func WithConsolidatedLabel(label string) Option {
	return func(s *Service) {
		if label != "" {
			s.consolidatedLabel = label
		}
	}
}

// NewService creates a service over store.
func NewService(store Store, agg *aggregator.Aggregator, logger logging.Logger, opts ...Option) *Service {
	logger = logging.OrDefault(logger)
	if agg == nil {
		agg = aggregator.NewAggregator(nil, logger)
	}
	s := &Service{store: store, aggregator: agg, logger: logger, consolidatedLabel: models.ColumnConsolidado}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Statement builds the multi-period statement of one branch. With an empty
// Sucursal every branch is pooled, each branch's manual values replacing its
// own ledger rows first.
func (s *Service) Statement(ctx context.Context, req Request) (*models.EERRData, error) {
	txs, err := s.store.ListTransactions(ctx, repository.Filter{
		UserID:   req.UserID,
		Sucursal: req.Sucursal,
		From:     req.From,
		To:       req.To,
	})
	if err != nil {
		return nil, err
	}

	from, to, err := bounds(req, txs)
	if err != nil {
		return nil, err
	}
	periods := models.Range(from, to)
	if len(periods) == 0 {
		return nil, fmt.Errorf("invalid range %s..%s", from, to)
	}

	var data *models.EERRData
	if req.Sucursal == "" {
		pooled, err := s.pool(ctx, req.UserID, txs, periods)
		if err != nil {
			return nil, err
		}
		data = s.aggregator.AggregateRange(pooled, from, to, nil)
	} else {
		manual, err := s.store.ManualValues(ctx, req.UserID, req.Sucursal, periods)
		if err != nil {
			return nil, err
		}
		data = s.aggregator.AggregateRange(txs, from, to, manual)
	}

	s.logger.Info("Statement built",
		logging.Field{Key: logging.FieldUser, Value: req.UserID},
		logging.Field{Key: logging.FieldBranch, Value: req.Sucursal},
		logging.Field{Key: logging.FieldPeriod, Value: from.String() + ".." + to.String()},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return data, nil
}

// PeriodStatement builds the single-month statement of one branch (all
// branches pooled when sucursal is empty), with rounded percentages and no
// annual column.
func (s *Service) PeriodStatement(ctx context.Context, userID, sucursal string, p models.Period) (*models.EERRData, error) {
	txs, err := s.store.ListTransactions(ctx, repository.Filter{UserID: userID, Sucursal: sucursal, From: p, To: p})
	if err != nil {
		return nil, err
	}
	periods := []models.Period{p}
	if sucursal == "" {
		pooled, err := s.pool(ctx, userID, txs, periods)
		if err != nil {
			return nil, err
		}
		return s.aggregator.AggregatePeriod(models.PeriodTransactions{Period: p, Transactions: pooled}, nil), nil
	}
	manual, err := s.store.ManualValues(ctx, userID, sucursal, periods)
	if err != nil {
		return nil, err
	}
	return s.aggregator.AggregatePeriod(models.PeriodTransactions{Period: p, Transactions: txs}, manual.ForPeriod(p)), nil
}

// Consolidated builds one statement per branch over the same range and sums
// them. Rows without a branch form a statement of their own. Users without
// named branches get the pooled statement.
func (s *Service) Consolidated(ctx context.Context, req Request) (*models.EERRData, error) {
	branches, err := s.store.Branches(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return s.Statement(ctx, Request{UserID: req.UserID, From: req.From, To: req.To})
	}

	all, err := s.store.ListTransactions(ctx, repository.Filter{UserID: req.UserID, From: req.From, To: req.To})
	if err != nil {
		return nil, err
	}
	// Every branch needs the same columns for the sum to line up.
	if req.From, req.To, err = bounds(req, all); err != nil {
		return nil, err
	}
	periods := models.Range(req.From, req.To)
	if len(periods) == 0 {
		return nil, fmt.Errorf("invalid range %s..%s", req.From, req.To)
	}
	byBranch := splitByBranch(all)

	unassigned, err := s.store.ManualValues(ctx, req.UserID, "", periods)
	if err != nil {
		return nil, err
	}
	if len(byBranch[""]) > 0 || len(unassigned) > 0 {
		branches = append([]string{""}, branches...)
	}

	statements := make([]*models.EERRData, 0, len(branches))
	for _, b := range branches {
		manual := unassigned
		if b != "" {
			if manual, err = s.store.ManualValues(ctx, req.UserID, b, periods); err != nil {
				return nil, fmt.Errorf("branch %s: %w", b, err)
			}
		}
		data := s.aggregator.AggregateRange(byBranch[b], req.From, req.To, manual)
		data.SheetName = b
		if b == "" {
			data.SheetName = models.BranchUnassigned
		}
		statements = append(statements, data)
	}

	out := table.SumAllEERR(statements...)
	if len(statements) > 1 {
		out.SheetName = s.consolidatedLabel
	}
	return out, nil
}

// pool merges the transactions of every branch after replacing each
// branch's (period, account) amounts with that branch's manual values.
func (s *Service) pool(ctx context.Context, userID string, txs []models.Transaction, periods []models.Period) ([]models.Transaction, error) {
	branches, err := s.store.Branches(ctx, userID)
	if err != nil {
		return nil, err
	}
	byBranch := splitByBranch(txs)
	names := append([]string{""}, branches...)
	for b := range byBranch {
		if !slices.Contains(names, b) {
			names = append(names, b)
		}
	}
	sort.Strings(names)

	var out []models.Transaction
	for _, b := range names {
		manual, err := s.store.ManualValues(ctx, userID, b, periods)
		if err != nil {
			return nil, fmt.Errorf("branch %s: %w", b, err)
		}
		out = append(out, applyManual(byBranch[b], b, manual, periods)...)
	}
	return out, nil
}

// applyManual drops the ledger rows of every (period, account) that has a
// manual value and adds one row per manual value instead. The heading hint
// of a replaced account is kept.
func applyManual(txs []models.Transaction, sucursal string, manual models.ManualValues, periods []models.Period) []models.Transaction {
	if len(manual) == 0 {
		return txs
	}
	hints := make(map[models.Period]map[string]string)
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		p := tx.Period()
		if _, ok := manual.Get(p, tx.Cuenta); !ok {
			out = append(out, tx)
			continue
		}
		if hints[p] == nil {
			hints[p] = make(map[string]string)
		}
		key := textnorm.Fold(tx.Cuenta)
		if hints[p][key] == "" {
			hints[p][key] = tx.Clasificacion
		}
	}

	for _, p := range periods {
		entries := manual.ForPeriod(p)
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			key := textnorm.Fold(name)
			if key == "" {
				continue
			}
			out = append(out, models.Transaction{
				Cuenta:        name,
				Clasificacion: hints[p][key],
				MontoNeto:     entries[name],
				MontoTotal:    entries[name],
				FechaDocto:    p.Start(),
				Sucursal:      sucursal,
			})
		}
	}
	return out
}

func splitByBranch(txs []models.Transaction) map[string][]models.Transaction {
	out := make(map[string][]models.Transaction)
	for _, tx := range txs {
		out[tx.Sucursal] = append(out[tx.Sucursal], tx)
	}
	return out
}

// FromTransactions builds a statement straight from txs over the range of req,
// open ends defaulting to the first and last document month. Only the range
// fields of req are used.
func (s *Service) FromTransactions(txs []models.Transaction, req Request, manual models.ManualValues) (*models.EERRData, error) {
	from, to, err := bounds(req, txs)
	if err != nil {
		return nil, err
	}
	return s.aggregator.AggregateRange(txs, from, to, manual), nil
}

// bounds fills the open ends of req from the transactions' date span.
func bounds(req Request, txs []models.Transaction) (models.Period, models.Period, error) {
	from, to := req.From, req.To
	if from.IsZero() || to.IsZero() {
		periods := batch.CalculateDateRange(txs).Periods()
		if len(periods) == 0 {
			if from.IsZero() && to.IsZero() {
				return from, to, ErrNoData
			}
			if from.IsZero() {
				from = to
			} else {
				to = from
			}
			return from, to, nil
		}
		if from.IsZero() {
			from = periods[0]
		}
		if to.IsZero() {
			to = periods[len(periods)-1]
		}
	}
	return from, to, nil
}
