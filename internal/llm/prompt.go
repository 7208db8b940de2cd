package llm

import (
	"fmt"
	"strings"
)

const transcribePrompt = `Transcribe all text visible in this image exactly as printed.

Rules:
- Preserve line breaks, spelling, punctuation and diacritics as they appear
- Do not translate, normalize or expand abbreviations
- Do not describe the image or add commentary
- If a word is illegible, write [?] in its place

Respond with ONLY the transcription, no other text.`

const correctionPreamble = `Below is a raw OCR transcription of a printed page. It may contain
character-level recognition errors (confused letters, broken words, stray
symbols). Produce a corrected transcription.

Rules:
- Fix only plausible OCR errors; never rewrite, summarize or modernize
- Preserve the original line breaks and ordering
- Keep proper names, years and page numbers exactly unless clearly garbled
- If the image is attached, prefer what the image shows over the OCR draft

Respond with ONLY the corrected transcription, no other text.`

// buildCorrectionPrompt wraps an OCR draft in the correction instructions.
func buildCorrectionPrompt(ocrText string) string {
	var sb strings.Builder
	sb.WriteString(correctionPreamble)
	sb.WriteString("\n\n---\n")
	sb.WriteString(fmt.Sprintf("OCR draft:\n%s", ocrText))
	return sb.String()
}
