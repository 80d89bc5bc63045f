package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IndexPlaceholder marks where new report links are inserted in the archive index.
const IndexPlaceholder = "<!-- REPORT_LINKS_PLACEHOLDER -->"

// LinkText builds the archive label for a report file such as "design_Report_2025-01-31_18-05-09.html".
// Names that do not follow that pattern are used as is.
func LinkText(reportFile string) string {
	base := strings.TrimSuffix(filepath.Base(reportFile), filepath.Ext(reportFile))
	parts := strings.Split(base, "_")
	if len(parts) < 4 || parts[0] == "" {
		return filepath.Base(reportFile)
	}

	var site string
	switch parts[0] {
	case "design":
		site = "Transitional Design"
	case "great":
		site = "Great Finds"
	default:
		site = strings.ToUpper(parts[0][:1]) + strings.ToLower(parts[0][1:])
	}
	return fmt.Sprintf("%s Report - %s at %s", site, parts[2], strings.ReplaceAll(parts[3], "-", ":"))
}

// UpdateIndex adds a link to reportFile right after the placeholder, newest first.
// It reports false when the link was already present.
func UpdateIndex(indexPath, reportFile string) (bool, error) {
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return false, &Error{Path: indexPath, Message: "archive index not found", Cause: err}
	}
	content := string(data)

	name := filepath.Base(reportFile)
	link := fmt.Sprintf(`            <li><a href="%s">%s</a></li>`, name, LinkText(name))
	if strings.Contains(content, link) {
		return false, nil
	}
	if !strings.Contains(content, IndexPlaceholder) {
		return false, &Error{Path: indexPath, Message: "placeholder " + IndexPlaceholder + " missing"}
	}

	content = strings.Replace(content, IndexPlaceholder, IndexPlaceholder+"\n"+link, 1)
	if err := os.WriteFile(indexPath, []byte(content), 0o644); err != nil {
		return false, &Error{Path: indexPath, Message: "failed to write archive index", Cause: err}
	}
	return true, nil
}
