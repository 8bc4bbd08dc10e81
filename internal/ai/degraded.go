package ai

import "fmt"

const (
	// DefaultFitScore is used whenever a score cannot be obtained from the model.
	DefaultFitScore = 50

	DefaultResumeSummary = "Resumen del CV no disponible"
	DefaultBestMatch     = "No determinado"

	NoPostingsBestMatch = "Sin vacantes activas"

	MissingCredentialSummary   = "Error: No se pudo procesar el CV"
	MissingCredentialBestMatch = "N/A"

	AuthFailureBestMatch = "Error"

	BadRequestSummary   = "Error al leer PDF"
	BadRequestBestMatch = "Error"

	UnknownFailureBestMatch = "Error en evaluación"
)

// NoPostingsResult is returned without contacting the model when there is nothing to match against.
func NoPostingsResult() *EvaluationResult {
	return &EvaluationResult{
		EvaluationText: "No hay vacantes activas en este momento. La postulación quedó registrada " +
			"y será evaluada manualmente cuando se publiquen nuevas vacantes.",
		FitScore:         DefaultFitScore,
		ResumeSummary:    DefaultResumeSummary,
		BestMatch:        NoPostingsBestMatch,
		MatchPercentages: map[string]int{},
	}
}

// MissingCredentialResult is returned when no provider API key is configured.
func MissingCredentialResult() *EvaluationResult {
	return &EvaluationResult{
		EvaluationText: "La evaluación automática no está disponible: no hay una clave de API configurada " +
			"para el proveedor del modelo. Se requiere revisión manual.",
		FitScore:         DefaultFitScore,
		ResumeSummary:    MissingCredentialSummary,
		BestMatch:        MissingCredentialBestMatch,
		MatchPercentages: map[string]int{},
	}
}

// AuthFailureResult is returned when the provider rejects the configured credential.
func AuthFailureResult(detail string) *EvaluationResult {
	text := "Error de autenticación con el proveedor del modelo: la clave de API fue rechazada. " +
		"Se requiere revisión manual."
	if detail != "" {
		text = fmt.Sprintf("%s Detalle: %s", text, detail)
	}

	return &EvaluationResult{
		EvaluationText:   text,
		FitScore:         DefaultFitScore,
		ResumeSummary:    DefaultResumeSummary,
		BestMatch:        AuthFailureBestMatch,
		MatchPercentages: map[string]int{},
	}
}

// BadRequestResult is returned when the provider refuses the request, usually an unreadable document.
func BadRequestResult(providerMessage string) *EvaluationResult {
	return &EvaluationResult{
		EvaluationText: fmt.Sprintf("El proveedor del modelo no pudo procesar el documento: %s. "+
			"Verifique que el CV sea un PDF legible. Se requiere revisión manual.", providerMessage),
		FitScore:         DefaultFitScore,
		ResumeSummary:    BadRequestSummary,
		BestMatch:        BadRequestBestMatch,
		MatchPercentages: map[string]int{},
	}
}

// UnknownFailureResult covers transport errors, timeouts and anything unclassified.
func UnknownFailureResult() *EvaluationResult {
	return &EvaluationResult{
		EvaluationText: "No fue posible completar la evaluación automática por un error inesperado. " +
			"La postulación fue registrada y requiere revisión manual por parte del equipo de selección.",
		FitScore:         DefaultFitScore,
		ResumeSummary:    DefaultResumeSummary,
		BestMatch:        UnknownFailureBestMatch,
		MatchPercentages: map[string]int{},
	}
}
