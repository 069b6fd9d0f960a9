package symbols

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadKeyFile reads "TOKEN GLYPH DIGIT" lines from the provided file path.
func LoadKeyFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only key file.
			_ = cerr
		}
	}()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected TOKEN GLYPH DIGIT, got %q", lineNo, line)
		}
		digit, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid digit %q", lineNo, fields[2])
		}
		entries = append(entries, Entry{Symbol: Symbol(fields[0]), Glyph: fields[1], Digit: digit})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("key file is empty")
	}
	return entries, nil
}
