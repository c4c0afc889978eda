package censor

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	outputSuffix = "_censored"
	maxLineSize  = 1024 * 1024
)

// OutputPath derives the censored file name by inserting "_censored" before
// the final extension, e.g. "chat.txt" becomes "chat_censored.txt".
// A leading dot does not start an extension, so ".env" becomes ".env_censored".
func OutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	if ext == filepath.Base(inputPath) {
		ext = ""
	}
	return strings.TrimSuffix(inputPath, ext) + outputSuffix + ext
}

// CensorFile runs CensorMessage on every line of the input file and writes
// the result next to it, see OutputPath. Every output line ends with a
// newline. On error the partially written output file is removed.
func (c *Censor) CensorFile(inputPath string) (censoredPath string, err error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	outputPath := OutputPath(inputPath)
	out, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
		if err != nil {
			os.Remove(outputPath)
			censoredPath = ""
		}
	}()

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line, err := c.CensorMessage(scanner.Text())
		if err != nil {
			return "", err
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return "", fmt.Errorf("failed to write line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read %s at line %d: %w", inputPath, lineNum+1, err)
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush output file: %w", err)
	}

	return outputPath, nil
}
