package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"eda-backend/internal/state"
)

// EncodeCSV writes the header and every row of df as comma-separated text.
func EncodeCSV(w io.Writer, df *state.DataFrame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(df.Headers()); err != nil {
		return err
	}
	for i := 0; i < df.NumRows(); i++ {
		if err := cw.Write(df.Row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes df to path, replacing any existing file.
func WriteCSV(path string, df *state.DataFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := EncodeCSV(f, df); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
