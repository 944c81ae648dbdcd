// Package radiocsv reads and writes the console's radio CSV layout: a
// header of nine literal Dutch column labels followed by one comma-joined
// row per radio.
//
// The format performs no quoting or escaping; a field containing a comma
// corrupts the row. That is an accepted limitation of the format, kept
// as-is, not a defect to silently fix.
package radiocsv

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"radio-fleet-console/internal/models"
)

// Header is the fixed column layout.
var Header = []string{
	"ID", "Merk", "Model", "Type", "Serienummer",
	"Alias", "Afdeling", "Registratiedatum", "Opmerking",
}

// Template returns a header-only file for download.
func Template() string {
	return strings.Join(Header, ",") + "\n"
}

// Export writes the header and one row per radio.
func Export(w io.Writer, radios []models.Radio) error {
	if _, err := io.WriteString(w, strings.Join(Header, ",")+"\n"); err != nil {
		return err
	}
	for _, r := range radios {
		row := strings.Join([]string{
			r.ID, r.Merk, r.Model, r.Type, r.Serienummer,
			r.Alias, r.Afdeling, r.Registratiedatum, r.Opmerking,
		}, ",")
		if _, err := io.WriteString(w, row+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Parse reads the same layout back. The header row is skipped, rows need at
// least eight populated columns and a non-empty ID, the registration date
// defaults to today and the remark to empty when absent.
func Parse(r io.Reader, today string) ([]models.RadioFormData, error) {
	scanner := bufio.NewScanner(r)
	var radios []models.RadioFormData
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue // header
		}
		values := strings.Split(scanner.Text(), ",")
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
		if len(values) < 8 || values[0] == "" {
			continue
		}
		form := models.RadioFormData{
			ID:               values[0],
			Merk:             values[1],
			Model:            values[2],
			Type:             values[3],
			Serienummer:      values[4],
			Alias:            values[5],
			Afdeling:         values[6],
			Registratiedatum: values[7],
			Opmerking:        "",
		}
		if form.Registratiedatum == "" {
			form.Registratiedatum = today
		}
		if len(values) > 8 {
			form.Opmerking = values[8]
		}
		radios = append(radios, form)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return radios, nil
}
