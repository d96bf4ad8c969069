// Package importer reads puzzle inputs: source images, batch job lists from
// CSV or Excel files, DXF outlines and piece manifests. Job lists support
// automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PuzzleCut/internal/logging"
	"github.com/piwi3910/PuzzleCut/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Jobs     []model.Job
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Image   int
	Pieces  int
	Columns int
	Rows    int
	Seed    int
	TabSize int
	Jitter  int
	Output  int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"image":    {"image", "file", "path", "picture", "photo", "source"},
	"pieces":   {"pieces", "piece count", "count", "pcs", "layout", "grid"},
	"columns":  {"columns", "cols", "col", "across"},
	"rows":     {"rows", "row", "down"},
	"seed":     {"seed"},
	"tab_size": {"tab size", "tab_size", "tabsize", "tab"},
	"jitter":   {"jitter"},
	"output":   {"output", "out", "output dir", "directory", "dir", "destination"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// positionalMapping is used when the first row is not a header:
// image, pieces, seed, tab size, jitter, output.
var positionalMapping = ColumnMapping{
	Image:   0,
	Pieces:  1,
	Columns: -1,
	Rows:    -1,
	Seed:    2,
	TabSize: 3,
	Jitter:  4,
	Output:  5,
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Image:   -1,
		Pieces:  -1,
		Columns: -1,
		Rows:    -1,
		Seed:    -1,
		TabSize: -1,
		Jitter:  -1,
		Output:  -1,
	}
	slots := map[string]*int{
		"image":    &mapping.Image,
		"pieces":   &mapping.Pieces,
		"columns":  &mapping.Columns,
		"rows":     &mapping.Rows,
		"seed":     &mapping.Seed,
		"tab_size": &mapping.TabSize,
		"jitter":   &mapping.Jitter,
		"output":   &mapping.Output,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if slot := slots[role]; *slot == -1 {
						*slot = i
					}
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// ParseLayout reads a piece count ("24") or an explicit grid ("6x4").
func ParseLayout(s string) (count int, grid model.Grid, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, r, ok := strings.Cut(s, "x"); ok {
		cols, err1 := strconv.Atoi(strings.TrimSpace(c))
		rows, err2 := strconv.Atoi(strings.TrimSpace(r))
		if err1 != nil || err2 != nil || cols <= 0 || rows <= 0 {
			return 0, model.Grid{}, fmt.Errorf("invalid grid %q", s)
		}
		return 0, model.Grid{Columns: cols, Rows: rows}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, model.Grid{}, fmt.Errorf("invalid piece count %q", s)
	}
	return n, model.Grid{}, nil
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Job from a row using the given column mapping.
// Returns the job, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, defaults model.GenerationSettings) (model.Job, string, []string) {
	job := model.Job{Settings: defaults}
	var warnings []string

	job.Image = getCell(row, mapping.Image)
	if job.Image == "" {
		return model.Job{}, fmt.Sprintf("%s: Missing image", rowLabel), nil
	}

	if layout := getCell(row, mapping.Pieces); layout != "" {
		count, grid, err := ParseLayout(layout)
		if err != nil {
			return model.Job{}, fmt.Sprintf("%s: %s", rowLabel, capitalize(err.Error())), nil
		}
		job.PieceCount, job.Grid = count, grid
	} else {
		colStr, rowStr := getCell(row, mapping.Columns), getCell(row, mapping.Rows)
		if colStr == "" || rowStr == "" {
			return model.Job{}, fmt.Sprintf("%s: Missing piece count or columns and rows", rowLabel), nil
		}
		cols, err1 := strconv.Atoi(colStr)
		rows, err2 := strconv.Atoi(rowStr)
		if err1 != nil || err2 != nil || cols <= 0 || rows <= 0 {
			return model.Job{}, fmt.Sprintf("%s: Invalid grid '%s x %s'", rowLabel, colStr, rowStr), nil
		}
		job.Grid = model.Grid{Columns: cols, Rows: rows}
	}

	if seedStr := getCell(row, mapping.Seed); seedStr != "" {
		seed, err := strconv.ParseUint(seedStr, 10, 64)
		if err != nil {
			return model.Job{}, fmt.Sprintf("%s: Invalid seed '%s'", rowLabel, seedStr), nil
		}
		job.Settings.Seed = seed
	}

	var msg string
	if job.Settings.TabSize, msg = parseRanged(getCell(row, mapping.TabSize), "tab size",
		model.MinTabSize, model.MaxTabSize, defaults.TabSize); msg != "" {
		warnings = append(warnings, rowLabel+": "+msg)
	}
	if job.Settings.Jitter, msg = parseRanged(getCell(row, mapping.Jitter), "jitter",
		model.MinJitter, model.MaxJitter, defaults.Jitter); msg != "" {
		warnings = append(warnings, rowLabel+": "+msg)
	}

	job.Output = getCell(row, mapping.Output)
	return job, "", warnings
}

// parseRanged parses an optional number in [lo, hi]. Unusable values fall
// back to def with a warning.
func parseRanged(s, name string, lo, hi, def float64) (float64, string) {
	if s == "" {
		return def, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def, fmt.Sprintf("Invalid %s '%s', using %g", name, s, def)
	}
	if v < lo || v > hi {
		return def, fmt.Sprintf("%s %g outside %g..%g, using %g", capitalize(name), v, lo, hi, def)
	}
	return v, ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports batch jobs from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters. Values missing from
// a row come from defaults.
func ImportCSV(path string, defaults model.GenerationSettings) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings, defaults)
}

// ImportCSVFromReader imports batch jobs from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune, defaults model.GenerationSettings) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil, defaults)
}

// ImportExcel imports batch jobs from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string, defaults model.GenerationSettings) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil, defaults)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into jobs.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, defaults model.GenerationSettings) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Image == -1 {
			missing = append(missing, "Image")
		}
		if mapping.Pieces == -1 && (mapping.Columns == -1 || mapping.Rows == -1) {
			missing = append(missing, "Pieces (or Columns and Rows)")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 2 {
		// A first row whose layout cell does not parse is an unrecognised
		// header: skip it but keep the positional mapping.
		if _, _, err := ParseLayout(rows[0][1]); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		job, errMsg, warnings := parseRow(row, mapping, rowLabel, defaults)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			logging.Logger().Warn("batch row skipped", "row", lineNum, "reason", errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Jobs = append(result.Jobs, job)
	}

	return result
}
