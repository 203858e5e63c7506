package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/designer"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ImportExportService moves projects in and out of the service as JSON and
// renders tests and results as spreadsheets.
type ImportExportService interface {
	// Import operations
	ImportProjectJSON(ctx context.Context, data []byte) (*models.ImportSummary, error)

	// Export operations
	ExportProjectJSON(ctx context.Context, projectID string) ([]byte, error)
	ExportTestExcel(ctx context.Context, projectID, testID string) ([]byte, error)
	ExportResultsExcel(ctx context.Context, testID string) ([]byte, error)
	ExportResultsCSV(ctx context.Context, testID string) ([]byte, error)
}

type importExportService struct {
	projects  ProjectService
	play      PlayService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(projects ProjectService, play PlayService, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		projects:  projects,
		play:      play,
		logger:    logger,
		validator: validator,
	}
}

// ===== IMPORT OPERATIONS =====

// ImportProjectJSON validates a project document and stores it. Ids that are
// missing or already taken are replaced; the summary lists every rename.
func (s *importExportService) ImportProjectJSON(ctx context.Context, data []byte) (*models.ImportSummary, error) {
	start := time.Now()
	s.logger.Info("Starting project import", "size", len(data))

	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, NewValidationError("body", "invalid project document: "+err.Error(), nil)
	}

	summary := &models.ImportSummary{
		TotalTests: len(project.Tests),
		RenamedIDs: make(map[string]string),
	}
	for _, t := range project.Tests {
		summary.TotalChallenges += len(t.Challenges)
	}

	s.assignIDs(ctx, &project, summary.RenamedIDs)
	if err := s.validator.Validate(&project); err != nil {
		summary.Errors = importErrors(err)
		summary.ProcessingTime = time.Since(start)
		s.logger.Warn("Project import rejected", "errors", len(summary.Errors))
		return summary, fmt.Errorf("%w: %d problems in project document", ErrValidationFailed, len(summary.Errors))
	}

	if err := s.projects.Put(ctx, &project); err != nil {
		return nil, fmt.Errorf("failed to store imported project: %w", err)
	}

	summary.ProjectID = project.ID
	summary.ProcessingTime = time.Since(start)
	s.logger.Info("Project imported",
		"project_id", project.ID,
		"tests", summary.TotalTests,
		"challenges", summary.TotalChallenges,
		"renamed", len(summary.RenamedIDs))
	return summary, nil
}

func (s *importExportService) assignIDs(ctx context.Context, project *models.Project, renamed map[string]string) {
	rename := func(old string) string {
		id := uuid.NewString()
		if old != "" {
			renamed[old] = id
		}
		return id
	}

	if project.ID == "" {
		project.ID = rename("")
	} else if _, err := s.projects.Get(ctx, project.ID); err == nil {
		project.ID = rename(project.ID)
	}

	seenTests := make(map[string]bool, len(project.Tests))
	for i := range project.Tests {
		t := &project.Tests[i]
		if t.ID == "" || seenTests[t.ID] {
			t.ID = rename(t.ID)
		} else if _, err := s.projects.FindTest(ctx, t.ID); err == nil {
			t.ID = rename(t.ID)
		}
		seenTests[t.ID] = true
		t.ProjectID = project.ID

		seenChallenges := make(map[string]bool, len(t.Challenges))
		for j := range t.Challenges {
			ch := &t.Challenges[j]
			if ch.ID == "" || seenChallenges[ch.ID] {
				ch.ID = rename(ch.ID)
			}
			seenChallenges[ch.ID] = true
		}
	}
}

func importErrors(err error) []models.ImportValidationError {
	var out []models.ImportValidationError
	if errs := validator.ToValidationErrors(err); len(errs) > 0 {
		for _, e := range errs {
			out = append(out, models.ImportValidationError{Field: e.Field, Message: e.Message})
		}
		return out
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		for _, e := range ve {
			out = append(out, models.ImportValidationError{Field: e.Field, Message: e.Message})
		}
		return out
	}
	return []models.ImportValidationError{{Field: "project", Message: err.Error()}}
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportProjectJSON(ctx context.Context, projectID string) ([]byte, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}
	return data, nil
}

func (s *importExportService) ExportTestExcel(ctx context.Context, projectID, testID string) ([]byte, error) {
	test, err := s.projects.GetTest(ctx, projectID, testID)
	if err != nil {
		return nil, err
	}

	headers := []string{"#", "ID", "Type", "Question", "Time Limit", "Solution"}
	rows := make([][]any, 0, len(test.Challenges))
	for i, ch := range test.Challenges {
		rows = append(rows, []any{i + 1, ch.ID, string(ch.Type), ch.Question, ch.TimeLimit(), DescribeSolution(ch)})
	}
	return writeSheet(test.Name, headers, rows)
}

func (s *importExportService) ExportResultsExcel(ctx context.Context, testID string) ([]byte, error) {
	result, err := s.play.GetTestResult(ctx, testID)
	if err != nil {
		return nil, err
	}

	headers, rows := resultRows(result)
	rows = append(rows,
		[]any{},
		[]any{"Correct", result.Correct},
		[]any{"Total", result.Total},
		[]any{"Percentage", result.Percentage},
	)
	return writeSheet("Results", headers, rows)
}

func (s *importExportService) ExportResultsCSV(ctx context.Context, testID string) ([]byte, error) {
	result, err := s.play.GetTestResult(ctx, testID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	headers, rows := resultRows(result)
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// ===== HELPERS =====

func resultRows(result *models.TestResult) ([]string, [][]any) {
	headers := []string{"Session", "Challenge", "Type", "Status", "Reason", "Complete", "Remaining", "Resolved At"}
	rows := make([][]any, 0, len(result.Results))
	for _, r := range result.Results {
		rows = append(rows, []any{
			r.SessionID,
			r.ChallengeID,
			string(r.ChallengeType),
			string(r.Status),
			string(r.Reason),
			r.Complete,
			r.Remaining,
			r.ResolvedAt.Format(time.RFC3339),
		})
	}
	return headers, rows
}

func writeSheet(name string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := sheetTitle(name)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheetName, cell, header)
	}
	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetTitle strips the characters Excel forbids in sheet names and applies
// its 31 character limit.
func sheetTitle(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	if name == "" {
		return "Sheet1"
	}
	return name
}

// DescribeSolution renders the authored answer of a challenge as one line of
// text.
func DescribeSolution(ch models.Challenge) string {
	switch c := ch.Content.(type) {
	case models.SelectAnswerContent:
		var valid []string
		for _, a := range c.Answers {
			if a.Valid {
				valid = append(valid, a.Text)
			}
		}
		return strings.Join(valid, "; ")
	case models.TrueOrFalseContent:
		return strconv.FormatBool(c.Answer)
	case models.FillGapsContent:
		lines := make([]string, 0, len(c.Sentences))
		for _, sentence := range c.Sentences {
			lines = append(lines, bracketGaps(sentence))
		}
		return strings.Join(lines, " / ")
	case models.MatchContent:
		pairs := make([]string, 0, len(c.Pairs))
		for _, p := range c.Pairs {
			pairs = append(pairs, p.Source+" = "+p.Destination)
		}
		return strings.Join(pairs, "; ")
	case models.SortContent:
		return strings.Join(c.Items, " > ")
	case models.ClassifyContent:
		groups := make([]string, 0, len(c.Groups))
		for _, g := range c.Groups {
			groups = append(groups, g.Name+": "+strings.Join(g.Items, ", "))
		}
		return strings.Join(groups, "; ")
	case models.FillTableContent:
		var cells []string
		for r, row := range c.Items {
			for col, cell := range row {
				if cell.Hidden && !c.Config.IsFixed(r, col) {
					cells = append(cells, fmt.Sprintf("(%d,%d) %s", r+1, col+1, cell.Text))
				}
			}
		}
		return strings.Join(cells, "; ")
	case models.TheOddOneContent:
		odd := make([]string, 0, len(c.Series))
		for _, series := range c.Series {
			if series.TheOddOneIndex >= 0 && series.TheOddOneIndex < len(series.Elements) {
				odd = append(odd, series.Elements[series.TheOddOneIndex])
			}
		}
		return strings.Join(odd, "; ")
	}
	return ""
}

// bracketGaps returns the sentence with each hidden expression in brackets.
func bracketGaps(sentence models.Sentence) string {
	words := utils.SplitSentence(sentence.Text)
	out := make([]string, 0, len(words))
	next := 0
	for _, h := range sentence.HiddenExpressions {
		text, ok := designer.HiddenText(words, h)
		if !ok || h.InitPosition < next {
			continue
		}
		out = append(out, words[next:h.InitPosition]...)
		out = append(out, "["+text+"]")
		next = h.InitPosition + h.WordCount
	}
	out = append(out, words[next:]...)
	return utils.JoinSentence(out)
}
