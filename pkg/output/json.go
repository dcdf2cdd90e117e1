package output

import (
	"encoding/json"

	"github.com/sonemaro/loctor/pkg/logger"
	"github.com/sonemaro/loctor/pkg/scanner"
)

// jsonExtension is one per-extension entry in structured output.
type jsonExtension struct {
	Extension string `json:"extension" yaml:"extension"`
	Files     int64  `json:"files" yaml:"files"`
	Lines     int64  `json:"lines" yaml:"lines"`
}

// jsonOutput is the complete structured output document. The YAML formatter
// reuses it so both structured formats stay in lockstep.
type jsonOutput struct {
	Extensions []jsonExtension `json:"extensions" yaml:"extensions"`
	TotalFiles int64           `json:"total_files" yaml:"total_files"`
	TotalLines int64           `json:"total_lines" yaml:"total_lines"`
}

func (f *formatter) formatJSON(result *scanner.RunResult) (string, error) {
	f.log.Debug("Formatting JSON output")

	bytes, err := json.MarshalIndent(f.convertToDocument(result), "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes), nil
}

func (f *formatter) convertToDocument(result *scanner.RunResult) *jsonOutput {
	rows := sortedRows(result)

	extensions := make([]jsonExtension, 0, len(rows))
	for _, r := range rows {
		extensions = append(extensions, jsonExtension{
			Extension: r.Extension,
			Files:     r.Files,
			Lines:     r.Lines,
		})
	}

	return &jsonOutput{
		Extensions: extensions,
		TotalFiles: result.TotalFiles,
		TotalLines: result.TotalLines,
	}
}
