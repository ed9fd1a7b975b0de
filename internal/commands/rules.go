package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bankfeed-dev/bankfeed/internal/model"
	"github.com/bankfeed-dev/bankfeed/internal/rules"
)

func newRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Work with tenant categorization rules",
	}
	cmd.AddCommand(newRulesTestCommand())
	return cmd
}

// sampleTxn is the YAML shape of a dry-run transaction.
type sampleTxn struct {
	Tenant      string   `yaml:"tenant"`
	Account     string   `yaml:"account"`
	PostedAt    string   `yaml:"posted_at"`
	Amount      string   `yaml:"amount"`
	Currency    string   `yaml:"currency"`
	Merchant    string   `yaml:"merchant"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
}

func newRulesTestCommand() *cobra.Command {
	var rulesPath string
	var txnPath string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Dry-run a rule set against a sample transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := rules.Load(rulesPath)
			if err != nil {
				return err
			}

			txn, err := loadSampleTxn(txnPath)
			if err != nil {
				return err
			}

			matched := rules.SelectMatch(rs, txn)
			if matched == nil {
				cmd.Println("no rule matched")
				return nil
			}

			name := matched.Name
			if name == "" {
				name = "(unnamed)"
			}
			cmd.Printf("matched rule %s (priority %d)\n", name, matched.Priority)

			out := rules.Apply(*matched, txn)
			cmd.Printf("category: %s\n", out.CategoryID)
			cmd.Printf("merchant: %s\n", out.MerchantNormalized)
			if len(out.Tags) > 0 {
				cmd.Printf("tags: %s\n", strings.Join(out.Tags, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rules file (required)")
	_ = cmd.MarkFlagRequired("rules")
	cmd.Flags().StringVar(&txnPath, "txn", "", "YAML sample transaction file (required)")
	_ = cmd.MarkFlagRequired("txn")

	return cmd
}

func loadSampleTxn(path string) (model.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("reading transaction file: %w", err)
	}

	var doc sampleTxn
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Transaction{}, fmt.Errorf("parsing transaction file: %w", err)
	}

	amount := decimal.Zero
	if doc.Amount != "" {
		amount, err = decimal.NewFromString(doc.Amount)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", doc.Amount, err)
		}
	}

	return model.Transaction{
		TenantID:           doc.Tenant,
		AccountID:          doc.Account,
		PostedAt:           doc.PostedAt,
		Amount:             amount,
		Currency:           doc.Currency,
		MerchantNormalized: doc.Merchant,
		DescriptionRaw:     doc.Description,
		CategoryID:         doc.Category,
		Tags:               doc.Tags,
	}, nil
}
