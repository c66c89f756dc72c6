package execution

import (
	"encoding/csv"
	"os"
	"strconv"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"period",
		"action",
		"inventory_start",
		"requested_shares",
		"shares",
		"inventory_end",
		"rate",
		"permanent_cost",
		"temporary_cost",
		"risk_cost",
		"hamiltonian",
		"cum_cost",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			strconv.Itoa(r.Period),
			string(r.Action),
			strconv.Itoa(r.InventoryStart),
			strconv.Itoa(r.RequestedShares),
			strconv.Itoa(r.Shares),
			strconv.Itoa(r.InventoryEnd),
			fmtFloat(r.Rate),
			fmtFloat(r.PermanentCost),
			fmtFloat(r.TemporaryCost),
			fmtFloat(r.RiskCost),
			fmtFloat(r.Hamiltonian),
			fmtFloat(r.CumCost),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteTableCSV writes one row per period with an inventory header x=0..X.
// Saturated cells are written as "+Inf".
func WriteTableCSV[T int | float64](path string, rows [][]T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if len(rows) > 0 {
		header := make([]string, 0, len(rows[0])+1)
		header = append(header, "period")
		for x := range rows[0] {
			header = append(header, strconv.Itoa(x))
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}
	for t, row := range rows {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.Itoa(t))
		for _, v := range row {
			switch x := any(v).(type) {
			case int:
				rec = append(rec, strconv.Itoa(x))
			case float64:
				rec = append(rec, strconv.FormatFloat(x, 'g', -1, 64))
			}
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
