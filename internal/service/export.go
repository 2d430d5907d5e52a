package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/careledger/careledger/internal/domain/patient"
)

// csvColumns is the contractual column order of the patient export.
var csvColumns = []string{
	"patientId", "name", "age", "phone",
	"bloodSugar", "systolicBP", "diastolicBP",
	"medicalHistory", "createdDate",
}

// utf8BOM lets spreadsheet tools detect the encoding.
const utf8BOM = "\ufeff"

// ExportPatientsCSV renders every patient as CSV, prefixed with a UTF-8
// byte-order mark. A field is wrapped in double quotes, with embedded quotes
// doubled, exactly when it contains a comma, quote or newline.
func (s *StatsService) ExportPatientsCSV(ctx context.Context) ([]byte, error) {
	patients, err := s.patients.List(ctx, &patient.ListPatientsQuery{})
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(utf8BOM)
	b.WriteString(strings.Join(csvColumns, ","))
	b.WriteString("\n")

	for _, p := range patients {
		row := []string{
			p.Code,
			p.Name,
			strconv.Itoa(p.Age),
			p.Phone,
			strconv.FormatFloat(p.BloodSugar, 'f', -1, 64),
			strconv.Itoa(p.SystolicBP),
			strconv.Itoa(p.DiastolicBP),
			p.MedicalHistory,
			p.CreatedAt.Format("2006-01-02"),
		}
		for i, field := range row {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(escapeCSVField(field))
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func escapeCSVField(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
