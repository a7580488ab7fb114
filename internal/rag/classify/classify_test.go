package classify

import (
	"strings"
	"testing"

	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
)

func TestSelectStrategy(t *testing.T) {
	legalText := "ARTÍCULO 1.- Primera disposicion.\n\nARTÍCULO 2.- Segunda disposicion."

	tests := []struct {
		name  string
		pages int
		text  string
		want  docModel.ChunkStrategy
	}{
		{
			name:  "Small_Document_Stays_Whole",
			pages: 3,
			text:  strings.Repeat("parrafo corto\n\n", 20),
			want:  docModel.StrategyWhole,
		},
		{
			name:  "Small_Legal_Document_Still_Whole",
			pages: 5,
			text:  legalText,
			want:  docModel.StrategyWhole,
		},
		{
			name:  "Recurring_Articles_Split_By_Article",
			pages: 12,
			text:  legalText,
			want:  docModel.StrategyByArticle,
		},
		{
			name:  "Lowercase_Articles_Still_Match",
			pages: 12,
			text:  "artículo 1.- uno\n\narticulo 2 .- dos",
			want:  docModel.StrategyByArticle,
		},
		{
			name:  "Single_Article_Falls_Back_To_Paragraphs",
			pages: 8,
			text:  "ARTÍCULO 1.- Unica disposicion.\n\nMas texto sin estructura legal.",
			want:  docModel.StrategySemanticParagraph,
		},
		{
			name:  "Plain_Prose_Uses_Paragraphs",
			pages: 10,
			text:  strings.Repeat("Informacion general del municipio.\n\n", 30),
			want:  docModel.StrategySemanticParagraph,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectStrategy(tt.pages, tt.text); got != tt.want {
				t.Errorf("Strategy got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectDocInfo(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		text         string
		wantType     string
		wantCategory string
	}{
		{"Formulario_By_Filename", "formulario_licencia.pdf", "contenido", "formulario", "comercio"},
		{"Solicitud_By_Filename", "solicitud-permiso.pdf", "contenido", "formulario", "comercio"},
		{"Ley_By_Content", "documento.pdf", "conforme a la LEY N° 27972", "ley", "normativa"},
		{"Ordenanza_By_Filename", "ordenanza_123.pdf", "texto", "ordenanza", "normativa"},
		{"Decreto_By_Content", "anexo.pdf", "segun el decreto de alcaldia", "decreto", "normativa"},
		{"Reglamento_By_Filename", "reglamento_interno.pdf", "texto", "reglamento", "normativa"},
		{"Guia_By_Filename", "guia_tramites.pdf", "pasos a seguir", "guia", "informacion"},
		{"Fallback_General", "acta_sesion.pdf", "contenido sin palabras clave", "documento_general", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectDocInfo(tt.filename, tt.text)
			if got.DocType != tt.wantType {
				t.Errorf("DocType got %q, want %q", got.DocType, tt.wantType)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category got %q, want %q", got.Category, tt.wantCategory)
			}
		})
	}
}
