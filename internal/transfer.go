package internal

import (
	"log"
	"net/http"
	"strings"
	"time"

	"radio-fleet-console/pkg/radiocsv"

	"github.com/tealeg/xlsx/v3"
)

const maxImportBytes = 5 << 20 // 5 MB

func (s *Server) exportRadiosCSV(w http.ResponseWriter, r *http.Request) {
	radios, err := s.Radios.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="radios.csv"`)
	if err := radiocsv.Export(w, radios); err != nil {
		log.Printf("csv export: %v", err)
	}
}

func (s *Server) exportRadiosXLSX(w http.ResponseWriter, r *http.Request) {
	radios, err := s.Radios.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Radios")
	if err != nil {
		writeError(w, err)
		return
	}

	header := sheet.AddRow()
	for _, label := range radiocsv.Header {
		header.AddCell().SetString(label)
	}
	for _, radio := range radios {
		row := sheet.AddRow()
		for _, v := range []string{
			radio.ID, radio.Merk, radio.Model, radio.Type, radio.Serienummer,
			radio.Alias, radio.Afdeling, radio.Registratiedatum, radio.Opmerking,
		} {
			row.AddCell().SetString(v)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="radios.xlsx"`)
	if err := wb.Write(w); err != nil {
		log.Printf("xlsx export: %v", err)
	}
}

func (s *Server) downloadCSVTemplate(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="radios-template.csv"`)
	_, _ = w.Write([]byte(radiocsv.Template()))
}

// importResult summarizes one bulk import: rows that reached the store and
// rows it rejected, keyed by radio ID.
type importResult struct {
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Errors   map[string]string `json:"errors,omitempty"`
}

// importRadiosCSV accepts either a raw CSV body or a multipart form with a
// "file" field. Rows import one by one; a bad row does not stop the rest.
func (s *Server) importRadiosCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	body := r.Body
	if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		body = file
	}

	today := time.Now().Format("2006-01-02")
	forms, err := radiocsv.Parse(body, today)
	if err != nil {
		http.Error(w, "unreadable csv: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(forms) == 0 {
		http.Error(w, "no importable rows", http.StatusBadRequest)
		return
	}

	result := importResult{Errors: map[string]string{}}
	for _, form := range forms {
		if _, err := s.Radios.Create(r.Context(), form); err != nil {
			result.Failed++
			result.Errors[form.ID] = err.Error()
			continue
		}
		result.Imported++
	}
	if len(result.Errors) == 0 {
		result.Errors = nil
	}

	status := http.StatusOK
	if result.Imported == 0 {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, result)
}
