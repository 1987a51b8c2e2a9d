package onboarding

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ImportFileName is the file unmatched users are written to.
const ImportFileName = "missing_users_import.csv"

var importHeader = []string{"firstname", "lastname", "email"}

// WriteImportCSV writes rows with a firstname,lastname,email header.
func WriteImportCSV(w io.Writer, rows []ImportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(importHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.FirstName, r.LastName, r.Email}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportImportCSV writes the import file at path.
func ExportImportCSV(path string, rows []ImportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteImportCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
