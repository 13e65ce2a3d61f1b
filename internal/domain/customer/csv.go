package customer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rotrack/internal/pkg/apperrors"
	"rotrack/internal/pkg/timeutil"
)

var csvHeader = []string{
	"serialNumber",
	"name",
	"address",
	"mobile",
	"roModel",
	"installationDate",
	"monthlyRent",
	"enableMonthlyReminder",
}

var dateFormatPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ImportRow is one validated row of a bulk import, before a schedule has been
// generated for it. Line is the row's position in the source data so failures
// later in the pipeline stay addressable.
type ImportRow struct {
	Line                  int
	SerialNumber          int64
	Name                  string
	Address               string
	Mobile                string
	ROModel               string
	InstallationDate      time.Time
	MonthlyRent           int64
	EnableMonthlyReminder bool
}

// ParseImport parses pasted CSV data into rows. Each row maps to
// [serialNumber, name, address, mobile, roModel, installationDate, monthlyRent]
// with an optional trailing enableMonthlyReminder column. Rows failing
// validation are reported individually with their line number; the rest of the
// batch is unaffected. existingSerials guards against duplicates in stored
// data; in-batch duplicates are rejected too.
func ParseImport(data string, existingSerials map[int64]bool) ([]ImportRow, []apperrors.ImportError) {
	var rows []ImportRow
	var importErrors []apperrors.ImportError

	seenInBatch := make(map[int64]bool)
	lines := strings.Split(data, "\n")
	lineNumber := 0
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNumber++
		if lineNumber == 1 && isHeaderLine(line) {
			lineNumber--
			continue
		}

		fields, err := splitCSVLine(line)
		if err != nil {
			importErrors = append(importErrors, apperrors.ImportError{
				Line:    lineNumber,
				Data:    line,
				Message: "Malformed CSV. Check for unclosed quotes.",
			})
			continue
		}
		if len(fields) != 7 && len(fields) != 8 {
			importErrors = append(importErrors, apperrors.ImportError{
				Line:    lineNumber,
				Data:    line,
				Message: fmt.Sprintf("Expected 7 fields, but found %d. Check for unclosed quotes or formatting issues.", len(fields)),
			})
			continue
		}

		row, rowErr := parseRow(fields)
		if rowErr != "" {
			importErrors = append(importErrors, apperrors.ImportError{Line: lineNumber, Data: line, Message: rowErr})
			continue
		}
		if existingSerials[row.SerialNumber] || seenInBatch[row.SerialNumber] {
			importErrors = append(importErrors, apperrors.ImportError{
				Line:    lineNumber,
				Data:    line,
				Message: "Serial Number already exists or is duplicated in the import file.",
			})
			continue
		}

		row.Line = lineNumber
		seenInBatch[row.SerialNumber] = true
		rows = append(rows, row)
	}

	return rows, importErrors
}

func parseRow(fields []string) (ImportRow, string) {
	serialNumber, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || serialNumber <= 0 {
		return ImportRow{}, "Serial Number must be a valid positive number."
	}

	if !dateFormatPattern.MatchString(fields[5]) {
		return ImportRow{}, "Invalid date format. Please use YYYY-MM-DD."
	}
	installationDate, err := time.ParseInLocation("2006-01-02", fields[5], timeutil.IST)
	if err != nil {
		return ImportRow{}, "Invalid date format. Please use YYYY-MM-DD."
	}

	monthlyRent, err := strconv.ParseInt(fields[6], 10, 64)
	if err != nil || monthlyRent < 0 {
		return ImportRow{}, "Monthly Rent must be a valid positive number."
	}

	enableMonthlyReminder := false
	if len(fields) == 8 {
		enableMonthlyReminder, _ = strconv.ParseBool(fields[7])
	}

	return ImportRow{
		SerialNumber:          serialNumber,
		Name:                  fields[1],
		Address:               fields[2],
		Mobile:                fields[3],
		ROModel:               fields[4],
		InstallationDate:      installationDate,
		MonthlyRent:           monthlyRent,
		EnableMonthlyReminder: enableMonthlyReminder,
	}, ""
}

func splitCSVLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.TrimLeadingSpace = true
	fields, err := r.Read()
	if err != nil {
		return nil, err
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

func isHeaderLine(line string) bool {
	fields, err := splitCSVLine(line)
	return err == nil && len(fields) > 0 && fields[0] == csvHeader[0]
}

// ExportCSV serializes customers back to delimited text with the same field
// set the importer accepts. Payment history is not carried; the installation
// date is written date-only. Quoting follows RFC 4180 (fields containing the
// delimiter or a quote are quoted, embedded quotes doubled).
func ExportCSV(customers []*Customer) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("%w: failed to write CSV header: %v", apperrors.ErrInternalServer, err)
	}
	for _, c := range customers {
		record := []string{
			strconv.FormatInt(c.SerialNumber, 10),
			c.Name,
			c.Address,
			c.Mobile,
			c.ROModel,
			timeutil.DateKey(c.InstallationDate),
			strconv.FormatInt(c.MonthlyRent, 10),
			strconv.FormatBool(c.EnableMonthlyReminder),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("%w: failed to write CSV row: %v", apperrors.ErrInternalServer, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("%w: failed to flush CSV: %v", apperrors.ErrInternalServer, err)
	}
	return buf.String(), nil
}
