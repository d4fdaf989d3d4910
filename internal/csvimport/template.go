package csvimport

import (
	"io"
	"net/http"
	"strings"
)

// TemplateFilename is the suggested name for the downloaded template.
const TemplateFilename = "student_template.csv"

// TemplateContentType is the MIME type of the template download.
const TemplateContentType = "text/csv;charset=utf-8"

var templateExample = []string{
	"홍길동",
	"hong@example.com",
	"010-1234-5678",
	"프로그램A",
	"A팀",
	"김코치",
	"2024-03-01",
}

// GenerateTemplate returns the header row in canonical order followed by one
// example row.
func GenerateTemplate() string {
	return strings.Join(Columns(), ",") + "\n" + strings.Join(templateExample, ",")
}

// WriteTemplate writes GenerateTemplate to w.
func WriteTemplate(w io.Writer) error {
	_, err := io.WriteString(w, GenerateTemplate())
	return err
}

// DownloadTemplate serves the template as a CSV attachment.
func DownloadTemplate(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", TemplateContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+TemplateFilename+`"`)
	w.WriteHeader(http.StatusOK)
	return WriteTemplate(w)
}
