// Package aggregator folds classified ledger transactions into an income
// statement: one Monto/% column pair per period, category totals, gross
// margin, EBITDA and net result, with percentages of sales.
package aggregator

import (
	"sort"

	"github.com/shopspring/decimal"

	"eerr/eerr-dashboard/internal/classifier"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/textnorm"
)

// Classifier maps an account name and optional manual heading to a heading.
type Classifier interface {
	Classify(account, manual string) string
}

// Aggregator builds EERRData from transactions.
type Aggregator struct {
	classifier    Classifier
	logger        logging.Logger
	annualLabel   string
	percentPlaces int32
	title         string
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithAnnualLabel renames the synthetic annual column.
func WithAnnualLabel(label string) Option {
	return func(a *Aggregator) {
		if label != "" {
			a.annualLabel = label
		}
	}
}

// WithPercentPlaces sets the rounding of single-period percentages.
func WithPercentPlaces(places int32) Option {
	return func(a *Aggregator) {
		if places >= 0 {
			a.percentPlaces = places
		}
	}
}

// WithTitle sets the SheetName of generated statements.
func WithTitle(title string) Option {
	return func(a *Aggregator) {
		if title != "" {
			a.title = title
		}
	}
}

// NewAggregator creates an aggregator. A nil classifier uses the built-in
// keyword rules.
func NewAggregator(c Classifier, logger logging.Logger, opts ...Option) *Aggregator {
	logger = logging.OrDefault(logger)
	if c == nil {
		c = classifier.New(nil, logger)
	}
	a := &Aggregator{
		classifier:    c,
		logger:        logger,
		annualLabel:   models.ColumnAnual,
		percentPlaces: 2,
		title:         models.DefaultReportTitle,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate builds a multi-period statement: one Monto/% pair per period in
// the given order plus the annual column. Manual values replace the ledger
// sum of (period, account) and manual-only accounts become rows.
// Percentages are not rounded.
func (a *Aggregator) Aggregate(periods []models.PeriodTransactions, manual models.ManualValues) *models.EERRData {
	return a.build(periods, manual, true)
}

// AggregatePeriod builds a single-period statement. Percentages are rounded
// and there is no annual column.
func (a *Aggregator) AggregatePeriod(p models.PeriodTransactions, manual map[string]decimal.Decimal) *models.EERRData {
	mv := models.ManualValues{}
	for account, amount := range manual {
		mv.Set(p.Period, account, amount)
	}
	return a.build([]models.PeriodTransactions{p}, mv, false)
}

// AggregateRange groups txs by month and aggregates every month from from to
// to inclusive, months without activity included.
func (a *Aggregator) AggregateRange(txs []models.Transaction, from, to models.Period, manual models.ManualValues) *models.EERRData {
	periods := models.FillPeriods(models.Range(from, to), models.GroupByPeriod(txs))
	return a.Aggregate(periods, manual)
}

type account struct {
	name    string
	manual  string
	amounts map[models.Period]decimal.Decimal
}

type accountSet struct {
	order []string
	byKey map[string]*account
}

func (s *accountSet) get(name string) *account {
	key := textnorm.Fold(name)
	acc, ok := s.byKey[key]
	if !ok {
		acc = &account{name: textnorm.CollapseSpaces(name), amounts: make(map[models.Period]decimal.Decimal)}
		s.byKey[key] = acc
		s.order = append(s.order, key)
	}
	return acc
}

// mergePeriods joins entries that name the same period, keeping first-seen
// order.
func mergePeriods(periods []models.PeriodTransactions) []models.PeriodTransactions {
	idx := make(map[models.Period]int, len(periods))
	var out []models.PeriodTransactions
	for _, p := range periods {
		if i, ok := idx[p.Period]; ok {
			out[i].Transactions = append(out[i].Transactions, p.Transactions...)
			continue
		}
		idx[p.Period] = len(out)
		out = append(out, models.PeriodTransactions{
			Period:       p.Period,
			Transactions: append([]models.Transaction(nil), p.Transactions...),
		})
	}
	return out
}

func (a *Aggregator) collect(periods []models.PeriodTransactions, manual models.ManualValues) *accountSet {
	set := &accountSet{byKey: make(map[string]*account)}
	for _, p := range periods {
		for _, tx := range p.Transactions {
			if textnorm.Fold(tx.Cuenta) == "" {
				a.logger.Debug("Transaction without account skipped",
					logging.Field{Key: logging.FieldPeriod, Value: p.Period.String()})
				continue
			}
			acc := set.get(tx.Cuenta)
			if acc.manual == "" && tx.Clasificacion != "" {
				acc.manual = tx.Clasificacion
			}
			acc.amounts[p.Period] = acc.amounts[p.Period].Add(tx.MontoNeto)
		}
	}

	for _, p := range periods {
		entries := manual.ForPeriod(p.Period)
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if textnorm.Fold(name) == "" {
				continue
			}
			set.get(name).amounts[p.Period] = entries[name]
		}
	}
	return set
}

type layout struct {
	labels []string // one per period
	cols   []string // labels plus the annual column
	annual string
	keys   []models.Period
}

func (l layout) row(item string, perPeriod func(models.Period) decimal.Decimal) models.Row {
	r := models.NewRow(item)
	sum := decimal.Zero
	for i, p := range l.keys {
		v := perPeriod(p)
		sum = sum.Add(v)
		r.Set(models.MontoOf(l.labels[i]), v)
		r.Set(models.PercentOf(l.labels[i]), decimal.Zero)
	}
	if l.annual != "" {
		r.Set(models.MontoOf(l.annual), sum)
		r.Set(models.PercentOf(l.annual), decimal.Zero)
	}
	return r
}

// combine builds a row whose Monto per column is f over the column.
func (l layout) combine(item string, f func(col string) decimal.Decimal) models.Row {
	r := models.NewRow(item)
	for _, c := range l.cols {
		r.Set(models.MontoOf(c), f(c))
		r.Set(models.PercentOf(c), decimal.Zero)
	}
	return r
}

func (l layout) total(item string, rows []models.Row) models.Row {
	return l.combine(item, func(c string) decimal.Decimal {
		sum := decimal.Zero
		for _, r := range rows {
			sum = sum.Add(r.Monto(c))
		}
		return sum
	})
}

func (a *Aggregator) build(periods []models.PeriodTransactions, manual models.ManualValues, multi bool) *models.EERRData {
	periods = mergePeriods(periods)

	l := layout{}
	for _, p := range periods {
		l.keys = append(l.keys, p.Period)
		l.labels = append(l.labels, p.Period.Label())
	}
	l.cols = append(l.cols, l.labels...)
	if multi {
		l.annual = a.annualLabel
		l.cols = append(l.cols, a.annualLabel)
	}

	accounts := a.collect(periods, manual)

	ventasKey := textnorm.Fold(models.ItemVentas)
	ventas := l.row(models.ItemVentas, func(p models.Period) decimal.Decimal {
		if acc, ok := accounts.byKey[ventasKey]; ok {
			return acc.amounts[p]
		}
		return decimal.Zero
	})

	byHeading := make(map[string][]models.Row)
	for _, key := range accounts.order {
		if key == ventasKey {
			continue
		}
		acc := accounts.byKey[key]
		heading := a.classifier.Classify(acc.name, acc.manual)
		canonical, ok := classifier.CanonicalHeading(heading)
		if !ok {
			a.logger.Debug("Account heading is not a fixed heading, left unclassified",
				logging.Field{Key: logging.FieldAccount, Value: acc.name},
				logging.Field{Key: logging.FieldHeading, Value: heading})
			canonical = models.SinClasificar
		}
		byHeading[canonical] = append(byHeading[canonical], l.row(acc.name, func(p models.Period) decimal.Decimal {
			return acc.amounts[p]
		}))
	}

	data := &models.EERRData{SheetName: a.title, Months: l.cols}

	// Income, with the gross margin as its total.
	incomeRows := append([]models.Row{ventas}, byHeading[models.HeadingIngresos]...)
	income := models.Category{Name: models.HeadingIngresos, Rows: incomeRows}
	gm := l.combine(models.ItemMargenBruto, func(c string) decimal.Decimal {
		return findMonto(incomeRows, models.ItemVentas, c).
			Sub(findMonto(incomeRows, models.ItemCostoVenta, c)).
			Add(findMonto(incomeRows, models.ItemBonificacion, c)).
			Sub(findMonto(incomeRows, models.ItemTransbank, c))
	})
	income.Total = &gm
	data.Categories = append(data.Categories, income)

	var expenseTotals []models.Row
	for _, h := range models.EBITDAExpenseHeadings {
		cat := a.category(l, h, byHeading[h])
		expenseTotals = append(expenseTotals, *cat.Total)
		data.Categories = append(data.Categories, cat)
	}

	ebitda := l.combine(models.ItemEBITDA, func(c string) decimal.Decimal {
		v := gm.Monto(c)
		for _, t := range expenseTotals {
			v = v.Sub(t.Monto(c))
		}
		return v
	})
	data.Categories = append(data.Categories, models.Category{Name: models.CategoryEBITDA, Rows: []models.Row{ebitda}})

	nonOp := a.category(l, models.HeadingEgresosNoOperacio, byHeading[models.HeadingEgresosNoOperacio])
	data.Categories = append(data.Categories, nonOp)

	net := l.combine(models.ItemResultadoNeto, func(c string) decimal.Decimal {
		return ebitda.Monto(c).Sub(nonOp.Total.Monto(c))
	})
	data.Categories = append(data.Categories, models.Category{Name: models.CategoryResultadoFinal, Rows: []models.Row{net}})

	if rows := byHeading[models.SinClasificar]; len(rows) > 0 {
		data.Categories = append(data.Categories, a.category(l, models.SinClasificar, rows))
	}

	a.fillPercentages(data, ventas, l.cols, !multi)

	a.logger.Debug("Statement aggregated",
		logging.Field{Key: logging.FieldCount, Value: len(accounts.order)},
		logging.Field{Key: logging.FieldPeriod, Value: l.labels})
	return data
}

func (a *Aggregator) category(l layout, name string, rows []models.Row) models.Category {
	total := l.total(models.TotalLabel(name), rows)
	return models.Category{Name: name, Rows: rows, Total: &total}
}

// findMonto reads the Monto of the row called item, zero when absent.
func findMonto(rows []models.Row, item, col string) decimal.Decimal {
	key := textnorm.Fold(item)
	for _, r := range rows {
		if textnorm.Fold(r.Item) == key {
			return r.Monto(col)
		}
	}
	return decimal.Zero
}

// fillPercentages sets every row's and total's percent as a share of the
// Ventas Monto of the same column. Columns where Ventas is zero or negative
// keep zero percentages.
func (a *Aggregator) fillPercentages(data *models.EERRData, ventas models.Row, cols []string, round bool) {
	bases := make(map[string]decimal.Decimal, len(cols))
	for _, c := range cols {
		bases[c] = ventas.Monto(c)
	}

	set := func(r *models.Row) {
		for _, c := range cols {
			pct, ok := models.PercentOfBase(r.Monto(c), bases[c])
			if !ok {
				continue
			}
			if round {
				pct = pct.Round(a.percentPlaces)
			}
			r.Set(models.PercentOf(c), pct)
		}
	}

	for ci := range data.Categories {
		cat := &data.Categories[ci]
		for ri := range cat.Rows {
			set(&cat.Rows[ri])
		}
		if cat.Total != nil {
			set(cat.Total)
		}
	}
}
