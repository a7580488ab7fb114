package classify

import "strings"

// DocInfo carries the detected document type and default category, used for
// registry metadata and as the category when the caller supplies none.
type DocInfo struct {
	DocType  string
	Category string
}

// DetectDocInfo classifies a municipal document from filename and content
// keywords: formularios, normativa (leyes, ordenanzas, decretos,
// reglamentos), guías, or general documents.
func DetectDocInfo(filename string, text string) DocInfo {
	name := strings.ToLower(filename)
	body := strings.ToLower(text)

	for _, keyword := range []string{"formato", "formulario", "solicitud"} {
		if strings.Contains(name, keyword) {
			return DocInfo{DocType: "formulario", Category: "comercio"}
		}
	}

	if strings.Contains(name, "ley") || strings.Contains(body, "ley n°") || strings.Contains(body, "ley nº") {
		return DocInfo{DocType: "ley", Category: "normativa"}
	}
	if strings.Contains(name, "ordenanza") || strings.Contains(body, "ordenanza") {
		return DocInfo{DocType: "ordenanza", Category: "normativa"}
	}
	if strings.Contains(name, "decreto") || strings.Contains(body, "decreto") {
		return DocInfo{DocType: "decreto", Category: "normativa"}
	}
	if strings.Contains(name, "reglamento") || strings.Contains(body, "reglamento") {
		return DocInfo{DocType: "reglamento", Category: "normativa"}
	}
	if strings.Contains(name, "triptico") || strings.Contains(name, "guia") {
		return DocInfo{DocType: "guia", Category: "informacion"}
	}

	return DocInfo{DocType: "documento_general", Category: "general"}
}
