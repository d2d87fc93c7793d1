// Package results turns solved profiles into tabular and wire formats: one
// row per mesh point, columns in the property-vector order.
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"hexcalc/exchanger"
)

var columns = []string{
	"x", "t_hot", "t_cold", "p_hot", "p_cold",
	"h_hot", "h_cold", "s_hot", "s_cold", "q_flux", "u",
}

// Table is a flat numeric view of a profile.
type Table struct {
	Name   string
	Header []string
	Rows   [][]float64
}

func BuildTable(p *exchanger.SpatialProfile) *Table {
	t := &Table{
		Name:   p.Name,
		Header: columns,
		Rows:   make([][]float64, 0, len(p.Samples)),
	}
	for _, s := range p.Samples {
		t.Rows = append(t.Rows, []float64{
			s.X, s.THot, s.TCold, s.PHot, s.PCold,
			s.HHot, s.HCold, s.SHot, s.SCold, s.QFlux, s.U,
		})
	}
	return t
}

// WriteCSV emits the table with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	row := make([]string, len(t.Header))
	for _, r := range t.Rows {
		for i, v := range r {
			row[i] = fmt.Sprintf("%.8g", v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes the profile as <name>.csv into dir.
func Export(dir string, p *exchanger.SpatialProfile) (string, error) {
	t := BuildTable(p)
	path := filepath.Join(dir, p.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := t.WriteCSV(f); err != nil {
		return "", err
	}
	return path, nil
}

// Dir creates a timestamped results directory under base, so repeated runs
// of the same case never overwrite each other.
func Dir(base string) (string, error) {
	name := filepath.Join(base, time.Now().Format("2006_01_02_15_04_05"))
	if err := os.MkdirAll(name, 0o755); err != nil {
		return "", err
	}
	return name, nil
}
