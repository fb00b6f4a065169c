package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// SetupPDFSupport registers the UniDoc license. Without a key, PDF seed
// files are skipped; plain-text extraction is unaffected.
func SetupPDFSupport(licenseKey string) bool {
	if licenseKey == "" {
		log.Println("SEEDER: no UNIDOC_LICENSE_KEY set, PDF seed files will be skipped")
		return false
	}
	if err := license.SetMeteredKey(licenseKey); err != nil {
		log.Printf("SEEDER WARN: failed to set UniDoc license key: %v. PDF seed files will be skipped.", err)
		return false
	}
	return true
}

// ExtractTextFromFile reads a seed file and returns its text content,
// dispatching on the file extension.
func ExtractTextFromFile(path string, pdfEnabled bool) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(content), nil
	case ".pdf":
		if !pdfEnabled {
			return "", fmt.Errorf("pdf support is not enabled")
		}
		return extractTextFromPDF(path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func extractTextFromPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return "", err
	}
	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return "", err
		}
		ex, err := extractor.New(page)
		if err != nil {
			return "", err
		}
		text, err := ex.ExtractText()
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}
