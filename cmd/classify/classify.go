// Package classify handles account classification commands
package classify

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"eerr/eerr-dashboard/cmd/common"
	"eerr/eerr-dashboard/cmd/root"
	"eerr/eerr-dashboard/internal/classifier"
	"eerr/eerr-dashboard/internal/container"
	"eerr/eerr-dashboard/internal/ledger"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/textnorm"
)

var (
	manual string
	save   string
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify [ACCOUNT...]",
	Short: "Show the statement heading of accounts",
	Long: `Show which statement heading each account is classified under, and which rule
decided it. With --input every distinct account of a ledger file is listed.

Example:
  eerr classify "Sueldo base" "Arriendo local"
  eerr classify --manual "OTROS GASTOS" "Bodega"
  eerr classify -i LibroCompras.xlsx
  eerr classify --save "OTROS GASTOS" "Bodega"`,
	Run: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&manual, "manual", "m", "", "Manual heading to apply")
	Cmd.Flags().StringVar(&save, "save", "", "Store the accounts under this heading in the rules file")
}

func classifyFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	c := root.GetContainer()

	accounts := args
	if root.SharedFlags.Input != "" {
		fromLedger, err := LedgerAccounts(c, root.SharedFlags.Input)
		if err != nil {
			logger.Fatalf("Error reading ledger: %v", err)
		}
		accounts = append(accounts, fromLedger...)
	}
	if len(accounts) == 0 {
		logger.Fatal("Give at least one account or a ledger with --input")
	}

	if save != "" {
		if err := Save(c, accounts, save); err != nil {
			logger.Fatalf("Error saving mapping: %v", err)
		}
	}

	results := Explain(c.GetClassifier(), accounts, manual)
	if root.SharedFlags.Output != "" {
		if err := common.WriteJSON(results, root.SharedFlags.Output, nil); err != nil {
			logger.Fatalf("Error writing output: %v", err)
		}
		return
	}
	Print(cmd.OutOrStdout(), results)
}

// Explain classifies every account.
func Explain(cl *classifier.Classifier, accounts []string, manual string) []classifier.Result {
	out := make([]classifier.Result, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, cl.Explain(a, manual))
	}
	return out
}

// Save stores account -> heading mappings in the rules file and applies them
// to the running classifier. heading must name one of the fixed headings.
func Save(c *container.Container, accounts []string, heading string) error {
	canonical, ok := classifier.CanonicalHeading(heading)
	if !ok {
		return fmt.Errorf("unknown heading %q", heading)
	}
	for _, account := range accounts {
		account = strings.TrimSpace(account)
		if account == "" {
			continue
		}
		if err := c.GetStore().SaveAccountMapping(account, canonical); err != nil {
			return fmt.Errorf("failed to save mapping for %s: %w", account, err)
		}
		c.GetClassifier().Learn(account, canonical)
		c.GetLogger().Info("Account mapping saved",
			logging.Field{Key: logging.FieldAccount, Value: account},
			logging.Field{Key: logging.FieldHeading, Value: canonical})
	}
	return nil
}

// LedgerAccounts lists the distinct accounts of a ledger file, sorted.
func LedgerAccounts(c *container.Container, path string) ([]string, error) {
	res, err := common.ImportLedgerFile(c, path, ledger.Options{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, tx := range res.Transactions {
		key := textnorm.Fold(tx.Cuenta)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tx.Cuenta)
	}
	sort.Strings(out)
	return out, nil
}

// Print writes one line per result.
func Print(w io.Writer, results []classifier.Result) {
	for _, r := range results {
		detail := r.Strategy
		if r.Keyword != "" {
			detail += ": " + r.Keyword
		}
		fmt.Fprintf(w, "%s -> %s (%s)\n", strings.TrimSpace(r.Account), r.Heading, detail)
	}
}
