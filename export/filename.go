package export

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

type filenameData struct {
	Format    string
	Timestamp string
	Date      string
}

// renderFilename expands the filename stem and appends the extension for format.
func renderFilename(stem string, format Format, now time.Time) (string, error) {
	name := strings.TrimSpace(stem)
	if name == "" {
		name = DefaultFilename
	}

	if strings.Contains(name, "{{") {
		data := filenameData{
			Format:    string(format),
			Timestamp: now.UTC().Format("20060102T150405Z"),
			Date:      now.UTC().Format("20060102"),
		}
		tmpl, err := template.New("filename").Parse(name)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", err
		}
		name = strings.TrimSpace(buf.String())
	}

	name = trimKnownExtension(name)
	if name == "" {
		return "", fmt.Errorf("empty filename")
	}
	if err := validateFilename(name); err != nil {
		return "", err
	}
	return name + "." + string(format), nil
}

func trimKnownExtension(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range []string{".csv", ".xlsx"} {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

func validateFilename(name string) error {
	for _, r := range name {
		switch {
		case r == '"', r == '/', r == '\\':
			return fmt.Errorf("filename contains %q", r)
		case r < 0x20, r == 0x7f:
			return fmt.Errorf("filename contains a control character")
		}
	}
	return nil
}
