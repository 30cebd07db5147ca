package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hindsightlab/hindsight/internal/marketdata"
	"github.com/hindsightlab/hindsight/internal/normalize"
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize the raw monthly dataset",
	Long: `Reads the raw CSV the ingestion job produced and runs the full
normalization pipeline:

- bond total return index from the 10Y yield (duration model)
- cash return index from the 3M T-bill
- gold and stock indices rescaled to 100
- inflation adjustment of all four indices via CPI
- year-over-year macro indicators
- sparse row drop

Prints a summary of the resulting table. The normalized data is not
persisted; scenario generation re-runs this pipeline from the raw file.

Example:
  go run ./cmd/hindsight normalize
  go run ./cmd/hindsight normalize --input data/raw_data.csv`,
	RunE: runNormalize,
}

var normalizeInput string

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringVar(&normalizeInput, "input", "", "raw CSV path (default from config)")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	path := cfg.Pipeline.RawDataPath
	if normalizeInput != "" {
		path = normalizeInput
	}

	raw, err := marketdata.LoadRawCSV(path)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d raw rows from %s\n", raw.Len(), path)

	table, err := normalize.New(cfg.Pipeline, log).Normalize(raw)
	if err != nil {
		return err
	}

	first := table.Points[0]
	last := table.Points[table.Len()-1]
	fmt.Printf("Normalized %d rows (%s to %s)\n",
		table.Len(),
		first.Date.Format("2006-01"),
		last.Date.Format("2006-01"))
	fmt.Printf("Final real indices: stocks=%.2f bonds=%.2f cash=%.2f gold=%.2f\n",
		last.IdxStocksReal, last.IdxBondsReal, last.IdxCashReal, last.IdxGoldReal)

	return nil
}
