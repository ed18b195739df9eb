// Package batch imports a directory of Libro de Compras files, grouping them
// by branch.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"eerr/eerr-dashboard/internal/dateutils"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/textnorm"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dateutils.ToISODate(dr.Start), dateutils.ToISODate(dr.End))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start, end := dr.Start, dr.End
	if start.IsZero() || (!other.Start.IsZero() && other.Start.Before(start)) {
		start = other.Start
	}
	if end.IsZero() || (!other.End.IsZero() && other.End.After(end)) {
		end = other.End
	}
	return DateRange{Start: start, End: end}
}

// Periods lists the months the range covers.
func (dr DateRange) Periods() []models.Period {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return nil
	}
	return models.Range(models.PeriodOf(dr.Start), models.PeriodOf(dr.End))
}

// FileGroup is the set of files that belong to one branch. Branch is empty
// for files whose name names no known branch.
type FileGroup struct {
	Branch string
	Files  []string
}

// BatchAggregator groups ledger files by branch and merges their transactions.
type BatchAggregator struct {
	logger   logging.Logger
	branches []string
	title    cases.Caser
}

// NewBatchAggregator creates an aggregator that recognises the given branch
// names in file names.
func NewBatchAggregator(logger logging.Logger, branches []string) *BatchAggregator {
	return &BatchAggregator{
		logger:   logging.OrDefault(logger),
		branches: branches,
		title:    cases.Title(language.Spanish),
	}
}

// BranchFromFilename returns the display name of the first known branch
// whose folded name occurs in the file's base name.
func (ba *BatchAggregator) BranchFromFilename(file string) string {
	base := textnorm.Fold(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	for _, b := range ba.branches {
		key := textnorm.Fold(b)
		if key != "" && strings.Contains(base, key) {
			return ba.title.String(key)
		}
	}
	return ""
}

// GroupFilesByBranch groups files by the branch named in their file name,
// sorted by branch.
func (ba *BatchAggregator) GroupFilesByBranch(files []string) []FileGroup {
	groups := make(map[string]*FileGroup)
	for _, file := range files {
		branch := ba.BranchFromFilename(file)
		ba.logger.Debug("File mapped to branch",
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)},
			logging.Field{Key: logging.FieldBranch, Value: branch})

		group, ok := groups[branch]
		if !ok {
			group = &FileGroup{Branch: branch}
			groups[branch] = group
		}
		group.Files = append(group.Files, file)
	}

	out := make([]FileGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Branch < out[j].Branch })

	ba.logger.Info("Grouped files into branches",
		logging.Field{Key: "total_files", Value: len(files)},
		logging.Field{Key: "branches", Value: len(out)})
	return out
}

// AggregateTransactions parses every file of group, skipping files that fail,
// and returns their transactions in document-date order. Transactions without
// a branch get the group's branch. Potential duplicates are logged and kept.
func (ba *BatchAggregator) AggregateTransactions(group FileGroup, parseFunc func(string) ([]models.Transaction, error)) []models.Transaction {
	var all []models.Transaction
	var sourceFiles []string

	for _, file := range group.Files {
		txs, err := parseFunc(file)
		if err != nil {
			ba.logger.WithError(err).Error("Failed to parse file",
				logging.Field{Key: logging.FieldFile, Value: file})
			continue
		}
		all = append(all, txs...)
		sourceFiles = append(sourceFiles, filepath.Base(file))
	}

	for i := range all {
		if all[i].Sucursal == "" {
			all[i].Sucursal = group.Branch
		}
	}
	SortChronologically(all)
	ba.detectAndLogDuplicates(all, group.Branch)

	ba.logger.Info("Aggregated transactions for branch",
		logging.Field{Key: "total_transactions", Value: len(all)},
		logging.Field{Key: logging.FieldBranch, Value: group.Branch},
		logging.Field{Key: "source_files", Value: strings.Join(sourceFiles, ", ")})
	return all
}

// SortChronologically orders by document date, then RUT, then net amount.
func SortChronologically(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].FechaDocto.Equal(txs[j].FechaDocto) {
			return txs[i].FechaDocto.Before(txs[j].FechaDocto)
		}
		if txs[i].RUT != txs[j].RUT {
			return txs[i].RUT < txs[j].RUT
		}
		return txs[i].MontoNeto.LessThan(txs[j].MontoNeto)
	})
}

func duplicateKey(tx models.Transaction) string {
	return strings.Join([]string{
		dateutils.ToISODate(tx.FechaDocto),
		strings.TrimSpace(tx.RUT),
		textnorm.Fold(tx.Cuenta),
		tx.MontoNeto.String(),
	}, "|")
}

// CountDuplicates returns how many transactions repeat an earlier one with the
// same date, RUT, account and net amount.
func CountDuplicates(txs []models.Transaction) int {
	seen := make(map[string]bool, len(txs))
	n := 0
	for _, tx := range txs {
		k := duplicateKey(tx)
		if seen[k] {
			n++
			continue
		}
		seen[k] = true
	}
	return n
}

func (ba *BatchAggregator) detectAndLogDuplicates(txs []models.Transaction, branch string) {
	seen := make(map[string]bool, len(txs))
	count := 0
	for _, tx := range txs {
		k := duplicateKey(tx)
		if !seen[k] {
			seen[k] = true
			continue
		}
		count++
		ba.logger.Warn("Potential duplicate transaction",
			logging.Field{Key: logging.FieldBranch, Value: branch},
			logging.Field{Key: "date", Value: dateutils.ToISODate(tx.FechaDocto)},
			logging.Field{Key: "rut", Value: tx.RUT},
			logging.Field{Key: logging.FieldAccount, Value: tx.Cuenta},
			logging.Field{Key: "amount", Value: tx.MontoNeto.String()})
	}
	if count > 0 {
		ba.logger.Warn("Found potential duplicate transactions",
			logging.Field{Key: logging.FieldCount, Value: count},
			logging.Field{Key: logging.FieldBranch, Value: branch})
	}
}

// CalculateDateRange returns the span of the transactions' document dates.
func CalculateDateRange(txs []models.Transaction) DateRange {
	var dr DateRange
	for _, tx := range txs {
		if tx.FechaDocto.IsZero() {
			continue
		}
		dr = dr.Merge(DateRange{Start: tx.FechaDocto, End: tx.FechaDocto})
	}
	return dr
}
