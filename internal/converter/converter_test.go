package converter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tabex/internal/config"
	"github.com/ginjaninja78/tabex/internal/exporter"
	"github.com/ginjaninja78/tabex/internal/sink"
	"github.com/ginjaninja78/tabex/internal/table"
)

const loansCSV = "ID,Date,Type,Amount,Client Name\n" +
	"7,2024-02-29,REPAYMENT,250.5,Ann\n" +
	"8,2024-03-01,FEE,10,Bob\n"

func setup(t *testing.T) (*Converter, *sink.Recorder, *config.MainConfig) {
	t.Helper()
	cfg := config.Default()
	cfg.Profiles["loans"] = config.ExportProfile{
		Title:    "Loan book",
		Filename: "loan_book",
		Match:    []string{"loans*.csv"},
		Columns: []config.ColumnConfig{
			{Key: "ID", Header: "Loan", Format: []table.Action{{Type: "pad_zeros_to_length", Value: "4"}}},
			{Key: "Amount", Header: "Amount", Format: []table.Action{{Type: "format_currency"}}},
		},
	}
	cfg.AccountMappings["sage"] = map[string]string{"REPAYMENT_DEBIT": "1210"}

	rec := sink.NewRecorder()
	now := func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	svc := exporter.New(rec, rec, zerolog.Nop(), exporter.WithClock(now))
	return New(svc, cfg, "", zerolog.Nop()), rec, cfg
}

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRun_WithProfile(t *testing.T) {
	conv, rec, _ := setup(t)
	path := writeInput(t, t.TempDir(), "loans.csv", loansCSV)

	result := conv.Run(context.Background(), Job{InputPath: path, Format: "csv", Profile: "loans"})
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, "loan_book_2024-03-01.csv", result.OutputFile)
	assert.Equal(t, 2, result.Stats.RowsRead)
	assert.Equal(t, 2, result.Stats.RecordsExported)

	d, _ := rec.Last()
	assert.Equal(t, "\"Loan\",\"Amount\"\n\"0007\",\"250.50\"\n\"0008\",\"10.00\"", string(d.Content))
}

func TestRun_HeaderColumns(t *testing.T) {
	conv, rec, cfg := setup(t)
	include := false
	cfg.IncludeTimestamp = &include
	path := writeInput(t, t.TempDir(), "fees.csv", "Fee,Note\n5,\"a, b\"\n")

	result := conv.Run(context.Background(), Job{InputPath: path, Format: "csv"})
	require.NoError(t, result.Error)
	assert.Equal(t, "fees.csv", result.OutputFile)

	d, _ := rec.Last()
	assert.Equal(t, "\"Fee\",\"Note\"\n\"5\",\"a, b\"", string(d.Content))
}

func TestRun_Ledger(t *testing.T) {
	conv, rec, _ := setup(t)
	path := writeInput(t, t.TempDir(), "loans.csv", loansCSV+"9,never,FEE,1,Cy\n")

	result := conv.Run(context.Background(), Job{InputPath: path, Format: "sage"})
	require.NoError(t, result.Error)
	assert.Equal(t, "loans_2024-03-01.csv", result.OutputFile)
	assert.Equal(t, 2, result.Stats.RecordsExported)
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0], "transaction 3")

	d, _ := rec.Last()
	lines := strings.Split(string(d.Content), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], `"JD","1210","29/02/2024"`))
}

func TestRun_Failures(t *testing.T) {
	conv, rec, _ := setup(t)
	dir := t.TempDir()
	ctx := context.Background()

	result := conv.Run(ctx, Job{InputPath: filepath.Join(dir, "missing.csv"), Format: "csv"})
	assert.False(t, result.Success)
	assert.Error(t, result.Error)

	headerOnly := writeInput(t, dir, "empty.csv", "A,B\n")
	result = conv.Run(ctx, Job{InputPath: headerOnly, Format: "csv"})
	assert.ErrorContains(t, result.Error, "at least a header row")

	good := writeInput(t, dir, "ok.csv", "A\n1\n")
	result = conv.Run(ctx, Job{InputPath: good, Format: "pdf"})
	assert.ErrorIs(t, result.Error, exporter.ErrUnknownFormat)

	result = conv.Run(ctx, Job{InputPath: good, Format: "csv", Profile: "nope"})
	assert.ErrorIs(t, result.Error, config.ErrUnknownProfile)

	result = conv.Run(ctx, Job{InputPath: good, Format: "xero"})
	assert.ErrorContains(t, result.Error, "no valid transactions")

	assert.Empty(t, rec.Deliveries())
}

func TestRun_Archives(t *testing.T) {
	_, _, cfg := setup(t)
	rec := sink.NewRecorder()
	archive := filepath.Join(t.TempDir(), "archive")
	conv := New(exporter.New(rec, nil, zerolog.Nop()), cfg, archive, zerolog.Nop())

	path := writeInput(t, t.TempDir(), "fees.csv", "Fee\n5\n")
	result := conv.Run(context.Background(), Job{InputPath: path, Format: "json"})
	require.NoError(t, result.Error)

	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(archive, "fees.csv"))
}

func TestDiscoverAndRunAll(t *testing.T) {
	conv, rec, cfg := setup(t)
	dir := t.TempDir()
	writeInput(t, dir, "loans_march.csv", loansCSV)
	writeInput(t, dir, "nested/fees.csv", "Fee\n5\n")
	writeInput(t, dir, "broken.csv", "only a header\n")
	writeInput(t, dir, "notes.txt", "ignored")

	jobs, err := DiscoverJobs(dir, "csv", cfg)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "broken.csv", filepath.Base(jobs[0].InputPath))
	assert.Equal(t, "loans", jobs[1].Profile)
	assert.Equal(t, "", jobs[2].Profile)

	results := conv.RunAll(context.Background(), jobs, 2)
	require.Len(t, results, 3)
	assert.False(t, results[0].Success)
	assert.True(t, results[1].Success)
	assert.True(t, results[2].Success)
	assert.Len(t, rec.Deliveries(), 2)

	_, err = DiscoverJobs(filepath.Join(dir, "absent"), "csv", cfg)
	assert.Error(t, err)
}

func TestDiscoverJobs_SkipsOutputAndArchive(t *testing.T) {
	_, _, cfg := setup(t)
	dir := t.TempDir()
	cfg.OutputDir = filepath.Join(dir, "output")
	writeInput(t, dir, "loans.csv", loansCSV)
	writeInput(t, dir, "output/loans_2026-10-16.json", `{"data":[{"ID":"7"}]}`)
	writeInput(t, dir, "done/old.csv", "Fee\n5\n")
	writeInput(t, dir, "nested/fees.csv", "Fee\n5\n")

	jobs, err := DiscoverJobs(dir, "json", cfg, filepath.Join(dir, "done"))
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, filepath.Join(dir, "loans.csv"), jobs[0].InputPath)
	assert.Equal(t, filepath.Join(dir, "nested", "fees.csv"), jobs[1].InputPath)

	// The output directory itself may still be scanned when asked for.
	jobs, err = DiscoverJobs(cfg.OutputDir, "csv", cfg)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestRunAll_Cancelled(t *testing.T) {
	conv, rec, _ := setup(t)
	path := writeInput(t, t.TempDir(), "fees.csv", "Fee\n5\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := conv.RunAll(ctx, []Job{{InputPath: path, Format: "csv"}}, 1)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Error, context.Canceled)
	assert.Empty(t, rec.Deliveries())
}
