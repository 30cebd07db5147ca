package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Raw CSV column names, as written by the ingestion job.
const (
	colDate           = "date"
	colBondYield10Y   = "bond_yield_10y"
	colTBill3M        = "tbill_3m"
	colCPI            = "cpi"
	colGDPGrowth      = "gdp_growth"
	colUnemployment   = "unemployment"
	colFedFunds       = "fed_funds"
	colIndustrialProd = "industrial_prod"
	colGold           = "gold"
	colStockTRIdx     = "stock_total_return_index"
)

// LoadRawCSV reads the raw monthly dataset from the CSV file the
// ingestion job produces. Empty cells become missing values; duplicate
// dates keep the last observation; rows come back sorted by date.
func LoadRawCSV(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raw data: %w", err)
	}
	defer f.Close()

	table, err := ReadRawCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return table, nil
}

// ReadRawCSV parses raw monthly data from an io.Reader.
func ReadRawCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	if _, ok := cols[colDate]; !ok {
		return nil, fmt.Errorf("missing required column %q", colDate)
	}

	table := &RawTable{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line+1, err)
		}
		line++

		date, err := time.Parse("2006-01-02", record[cols[colDate]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q: %w", line, record[cols[colDate]], err)
		}

		point := RawPoint{
			Date:                MonthStart(date),
			BondYield10Y:        parseCell(record, cols, colBondYield10Y),
			TBill3M:             parseCell(record, cols, colTBill3M),
			CPI:                 parseCell(record, cols, colCPI),
			GDPGrowth:           parseCell(record, cols, colGDPGrowth),
			Unemployment:        parseCell(record, cols, colUnemployment),
			FedFunds:            parseCell(record, cols, colFedFunds),
			IndustrialProd:      parseCell(record, cols, colIndustrialProd),
			Gold:                parseCell(record, cols, colGold),
			StockTotalReturnIdx: parseCell(record, cols, colStockTRIdx),
		}
		table.Points = append(table.Points, point)
	}

	table.Dedupe()
	table.Sort()
	return table, nil
}

// parseCell reads a float cell, treating absent columns and empty or
// malformed cells as missing observations.
func parseCell(record []string, cols map[string]int, name string) float64 {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return Missing
	}
	cell := record[idx]
	if cell == "" {
		return Missing
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return Missing
	}
	return v
}
