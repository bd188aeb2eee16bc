package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// ExportService writes portfolio reports to CSV files: one UTF-8 file per
// (portfolio, report-kind) with a header row, named
// <portfolio>_<kind>_<timestamp>.csv under the configured export directory.
type ExportService struct {
	valuationService   *ValuationService
	transactionService *TransactionService
	portfolioService   *PortfolioService
	exportDir          string
	log                zerolog.Logger
}

// NewExportService creates a new ExportService with the provided dependencies.
func NewExportService(
	valuationService *ValuationService,
	transactionService *TransactionService,
	portfolioService *PortfolioService,
	exportDir string,
	log zerolog.Logger,
) *ExportService {
	return &ExportService{
		valuationService:   valuationService,
		transactionService: transactionService,
		portfolioService:   portfolioService,
		exportDir:          exportDir,
		log:                log.With().Str("component", "export").Logger(),
	}
}

// ExportPortfolio writes the positions, transactions and summary reports
// for one portfolio and returns the created file paths.
func (s *ExportService) ExportPortfolio(portfolioID string) ([]string, error) {
	portfolio, err := s.portfolioService.GetPortfolio(portfolioID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102_150405")
	files := make([]string, 0, 3)

	positionsFile := filepath.Join(s.exportDir, fmt.Sprintf("%s_positions_%s.csv", portfolio.Name, timestamp))
	if err := s.writePositions(portfolioID, positionsFile); err != nil {
		return nil, err
	}
	files = append(files, positionsFile)

	transactionsFile := filepath.Join(s.exportDir, fmt.Sprintf("%s_transactions_%s.csv", portfolio.Name, timestamp))
	if err := s.writeTransactions(portfolioID, transactionsFile); err != nil {
		return nil, err
	}
	files = append(files, transactionsFile)

	summaryFile := filepath.Join(s.exportDir, fmt.Sprintf("%s_summary_%s.csv", portfolio.Name, timestamp))
	if err := s.writeSummary(portfolioID, summaryFile); err != nil {
		return nil, err
	}
	files = append(files, summaryFile)

	s.log.Info().Str("portfolio", portfolioID).Strs("files", files).Msg("Exported portfolio data")

	return files, nil
}

func (s *ExportService) writePositions(portfolioID, path string) error {
	holdings, err := s.valuationService.PositionsDetail(portfolioID)
	if err != nil {
		return err
	}

	rows := [][]string{{
		"symbol", "security_name", "quantity", "avg_cost",
		"live_price", "market_value", "cost_basis", "unrealized_pnl", "return_percent",
	}}

	for _, h := range holdings {
		livePrice := ""
		if h.HasLivePrice {
			livePrice = money(h.LivePrice)
		}
		rows = append(rows, []string{
			h.Symbol,
			h.SecurityName,
			quantity(h.Quantity),
			money(h.AvgCost),
			livePrice,
			money(h.MarketValue),
			money(h.CostBasis),
			money(h.UnrealizedPnL),
			money(h.ReturnPercent),
		})
	}

	return writeCSV(path, rows)
}

func (s *ExportService) writeTransactions(portfolioID, path string) error {
	transactions, err := s.transactionService.GetTransactionsPerPortfolio(portfolioID)
	if err != nil {
		return err
	}

	rows := [][]string{{"date", "symbol", "type", "quantity", "price", "gross_amount"}}

	for _, t := range transactions {
		rows = append(rows, []string{
			t.Date.Format("2006-01-02"),
			t.Symbol,
			t.Type,
			quantity(t.Quantity),
			money(t.Price),
			money(t.GrossAmount),
		})
	}

	return writeCSV(path, rows)
}

func (s *ExportService) writeSummary(portfolioID, path string) error {
	summaries, err := s.valuationService.Summarize(portfolioID)
	if err != nil {
		return err
	}

	rows := [][]string{{"portfolio", "positions", "market_value", "cost_basis", "unrealized_pnl", "return_percent"}}

	for _, sum := range summaries {
		rows = append(rows, []string{
			sum.Name,
			strconv.Itoa(sum.Positions),
			money(sum.MarketValue),
			money(sum.CostBasis),
			money(sum.UnrealizedPnL),
			money(sum.ReturnPercent),
		})
	}

	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}

func money(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func quantity(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
