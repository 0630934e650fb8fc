// =============================================================================
// Tabex - File Manager Utility
// =============================================================================
//
// This module provides file management utilities shared by the sinks and the
// CLI, including:
//   - Export file naming (optional _YYYY-MM-DD suffix)
//   - File name sanitising
//   - Output directory management
//   - Import error log generation
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles the output directory used by the directory sink.
type FileManager struct {
	// OutputDir is the directory where delivered files are placed.
	OutputDir string
}

// NewFileManager creates a new FileManager for outputDir.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{OutputDir: outputDir}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// Path returns the full output path for a delivered file name.
func (fm *FileManager) Path(fileName string) string {
	return filepath.Join(fm.OutputDir, filepath.Base(fileName))
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// ExportFileName builds "<base>[_YYYY-MM-DD]<ext>".
//
// PARAMETERS:
//   - base: The caller supplied name without extension.
//   - ext: The format extension including the dot (".csv"), or "" for none.
//   - includeTimestamp: Append the date of now before the extension.
//   - now: The call time.
//
// RETURNS:
//   - The file name.
//
// EXAMPLE:
//   ExportFileName("loans", ".csv", true, 2024-03-01) -> "loans_2024-03-01.csv"
func ExportFileName(base, ext string, includeTimestamp bool, now time.Time) string {
	name := base
	if includeTimestamp {
		name += "_" + now.Format("2006-01-02")
	}
	return name + ext
}

// SanitizeFileName replaces characters that are invalid in file names on
// Windows or Unix. An empty result falls back to "export".
func SanitizeFileName(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		case r == ' ' || r == '\t':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "export"
	}
	return b.String()
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single error log entry.
type ErrorLogEntry struct {
	FileName     string
	ErrorMessage string
}

// WriteErrorLog writes error entries to a log file in outputDir.
//
// PARAMETERS:
//   - entries: The error entries to write.
//   - outputDir: The directory to write the log file.
//   - now: The time stamped into the file name and header.
//
// RETURNS:
//   - The path to the error log file ("" when there is nothing to write).
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, outputDir string, now time.Time) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}

	logPath := filepath.Join(outputDir, fmt.Sprintf("error_log_%s.txt", now.Format("20060102_150405")))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Tabex - Import Error Log\n"+
		"Generated: %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		now.Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Error #%d\n  File:    %s\n  Message: %s\n\n",
			i+1, entry.FileName, entry.ErrorMessage)
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}
