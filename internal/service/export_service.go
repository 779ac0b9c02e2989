package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
	"github.com/teamstaff/staffdash-api/pkg/export"
	"github.com/teamstaff/staffdash-api/pkg/storage"
)

type qualityReporter interface {
	SeasonReport(ctx context.Context, team string, exemptIDs []int64, windowDays *int) (models.QualityReport, bool, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	RenderSections(title string, sections []export.Section) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders season quality reports into downloadable files. CSV
// exports write one file per report table, PDF exports a single document; all
// downloads go through HMAC signed tokens.
type ExportService struct {
	quality qualityReporter
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(quality qualityReporter, fs fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		quality: quality,
		storage: fs,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// ExportQualityReport computes the team's season quality report and renders
// it in the requested format. Expired files from earlier exports are swept
// opportunistically.
func (s *ExportService) ExportQualityReport(ctx context.Context, team string, req models.ExportQualityRequest) (*models.ExportResult, error) {
	if !req.Format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", req.Format))
	}

	report, _, err := s.quality.SeasonReport(ctx, team, req.ExemptIDs, req.WindowDays)
	if err != nil {
		return nil, err
	}

	if deleted, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("cleanup expired exports", zap.Error(err))
	} else if len(deleted) > 0 {
		s.logger.Info("removed expired exports", zap.Int("count", len(deleted)))
	}

	exportID := uuid.NewString()
	sections := reportSections(report)

	var files []models.ExportFile
	var expiresAt time.Time
	switch req.Format {
	case models.ExportFormatCSV:
		files, expiresAt, err = s.writeCSVBundle(exportID, sections)
	case models.ExportFormatPDF:
		files, expiresAt, err = s.writePDF(exportID, team, sections)
	}
	if err != nil {
		return nil, err
	}

	return &models.ExportResult{
		ExportID:  exportID,
		Format:    req.Format,
		Files:     files,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

func (s *ExportService) writeCSVBundle(exportID string, sections []export.Section) ([]models.ExportFile, time.Time, error) {
	files := make([]models.ExportFile, 0, len(sections))
	var expiresAt time.Time
	for _, section := range sections {
		payload, err := s.csv.Render(section.Data)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("render %s csv: %w", section.Name, err)
		}
		relPath := fmt.Sprintf("%s/%s.csv", exportID, section.Name)
		if _, err := s.storage.Save(relPath, payload); err != nil {
			return nil, time.Time{}, err
		}
		file, exp, err := s.signFile(exportID, section.Name, relPath)
		if err != nil {
			return nil, time.Time{}, err
		}
		expiresAt = exp
		files = append(files, file)
	}
	return files, expiresAt, nil
}

func (s *ExportService) writePDF(exportID, team string, sections []export.Section) ([]models.ExportFile, time.Time, error) {
	title := fmt.Sprintf("Season Data Quality Report %s", team)
	payload, err := s.pdf.RenderSections(title, sections)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("render quality pdf: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102_150405")
	relPath := fmt.Sprintf("%s/quality_%s_%s.pdf", exportID, sanitizeFilename(team), timestamp)
	if _, err := s.storage.Save(relPath, payload); err != nil {
		return nil, time.Time{}, err
	}
	file, expiresAt, err := s.signFile(exportID, "quality_report", relPath)
	if err != nil {
		return nil, time.Time{}, err
	}
	return []models.ExportFile{file}, expiresAt, nil
}

func (s *ExportService) signFile(exportID, table, relPath string) (models.ExportFile, time.Time, error) {
	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return models.ExportFile{}, time.Time{}, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return models.ExportFile{
		Table:        table,
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download/%s", prefix, token),
	}, expiresAt, nil
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

// reportSections flattens the quality report into one dataset per table.
// Headers deliberately reuse the report's JSON field names so downstream
// spreadsheet tooling lines up with the API payload.
func reportSections(report models.QualityReport) []export.Section {
	complianceRows := make([]map[string]string, 0, len(report.Compliance))
	for _, c := range report.Compliance {
		complianceRows = append(complianceRows, map[string]string{
			"player_id":      strconv.FormatInt(c.PlayerID, 10),
			"player_name":    c.PlayerName,
			"expected":       strconv.Itoa(c.Expected),
			"actual":         strconv.Itoa(c.Actual),
			"compliance_pct": formatPct(c.CompliancePct),
		})
	}

	duplicateRows := make([]map[string]string, 0, len(report.Duplicates))
	for _, d := range report.Duplicates {
		duplicateRows = append(duplicateRows, map[string]string{
			"key_type":   d.KeyType,
			"player_id":  strconv.FormatInt(d.PlayerID, 10),
			"session_id": d.SessionID,
			"date":       d.Date,
			"count":      strconv.Itoa(d.Count),
		})
	}

	anomalyRows := make([]map[string]string, 0, len(report.Anomalies))
	for _, a := range report.Anomalies {
		anomalyRows = append(anomalyRows, map[string]string{
			"player_id":               strconv.FormatInt(a.PlayerID, 10),
			"session_id":              a.SessionID,
			"date":                    formatExportTime(a.Date),
			"timestamp":               formatExportTime(a.Timestamp),
			"missing_session_id":      strconv.FormatBool(a.MissingSessionID),
			"orphan_session_id":       strconv.FormatBool(a.OrphanSessionID),
			"timestamp_out_of_window": strconv.FormatBool(a.TimestampOutOfWindow),
		})
	}

	trendRows := make([]map[string]string, 0, len(report.WeeklyTeamCompliance))
	for _, p := range report.WeeklyTeamCompliance {
		trendRows = append(trendRows, map[string]string{
			"weeknumber":          strconv.Itoa(p.Week),
			"team_compliance_pct": formatPct(p.TeamCompliancePct),
		})
	}

	summaryRows := []map[string]string{{
		"team_compliance_pct":  formatPct(report.Summary.TeamCompliancePct),
		"n_sessions_in_season": strconv.Itoa(report.Summary.SessionsInSeason),
		"n_duplicates":         strconv.Itoa(report.Summary.Duplicates),
		"n_anomalies":          strconv.Itoa(report.Summary.Anomalies),
	}}

	return []export.Section{
		{
			Name: "compliance",
			Data: export.Dataset{
				Headers: []string{"player_id", "player_name", "expected", "actual", "compliance_pct"},
				Rows:    complianceRows,
			},
		},
		{
			Name: "duplicates",
			Data: export.Dataset{
				Headers: []string{"key_type", "player_id", "session_id", "date", "count"},
				Rows:    duplicateRows,
			},
		},
		{
			Name: "anomalies",
			Data: export.Dataset{
				Headers: []string{"player_id", "session_id", "date", "timestamp", "missing_session_id", "orphan_session_id", "timestamp_out_of_window"},
				Rows:    anomalyRows,
			},
		},
		{
			Name: "weekly_team_compliance",
			Data: export.Dataset{
				Headers: []string{"weeknumber", "team_compliance_pct"},
				Rows:    trendRows,
			},
		},
		{
			Name: "summary",
			Data: export.Dataset{
				Headers: []string{"team_compliance_pct", "n_sessions_in_season", "n_duplicates", "n_anomalies"},
				Rows:    summaryRows,
			},
		},
	}
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatExportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
