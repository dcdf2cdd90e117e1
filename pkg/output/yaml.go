package output

import (
	"gopkg.in/yaml.v3"

	"github.com/sonemaro/loctor/pkg/logger"
	"github.com/sonemaro/loctor/pkg/scanner"
)

func (f *formatter) formatYAML(result *scanner.RunResult) (string, error) {
	f.log.Debug("Formatting YAML output")

	bytes, err := yaml.Marshal(f.convertToDocument(result))
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML")
		return "", err
	}

	return string(bytes), nil
}
