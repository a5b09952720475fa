package models

const (
	// DefaultSection names the text preceding the first recognized header.
	DefaultSection = "Main Content"

	// UnknownSection is the sentinel for chunks with undetected sections.
	UnknownSection = "Unknown"

	ThinkTag = `(?s)<think>.*?</think>`
)

// SectionHeaders are the canonical header names recognized by the segmenter,
// matched case-insensitively and ignoring numeric prefixes ("1.", "1.2").
var SectionHeaders = []string{
	"Abstract", "Introduction", "Background", "Methodology", "Methods",
	"Results", "Discussion", "Conclusion", "References", "Literature Review",
	"Related Work", "Experiments", "Analysis", "Findings", "Summary",
	"Overview", "Executive Summary", "Objectives", "Scope", "Definitions",
}

var (
	AnswerPromptTemplate = `You are a document assistant. Answer ONLY based on the provided context from the document.

STRICT RULES:
1. Use ONLY information explicitly stated in the context
2. If the context doesn't contain enough information to answer fully, say so
3. Always reference which SOURCE number you're using
4. Do NOT add external knowledge or assumptions
5. If uncertain, state your uncertainty clearly

Context from document:
%s

Question: %s

Answer (reference sources by number):`

	EvalPromptTemplate = `You are evaluating a user's answer based ONLY on the provided document content.

EVALUATION CRITERIA:
1. Accuracy: Does the answer align with the document content?
2. Completeness: Does it address the question adequately?
3. Use of evidence: Does it reference or reflect document content?
4. Reasoning: Is the logic sound based on the document?

Document Content:
%s

Question: %s

User's Answer: %s

Provide evaluation feedback focusing on:
- What the user got right (reference specific sources)
- What could be improved
- How well they used the document content
- Specific suggestions for better answers

Evaluation:`

	QuestionPromptTemplate = `Generate %d analytical questions based ONLY on the provided document content.

REQUIREMENTS:
1. Questions must be answerable using ONLY the document content
2. Focus on comprehension, analysis, and connections between sections
3. Avoid questions requiring external knowledge
4. Make questions thought-provoking but document-grounded
5. Format as numbered list

Document Content:
%s

Generate %d questions:`

	SummaryPromptTemplate = `Create a concise summary of this document in exactly %d words or less. Focus on the main purpose, key findings, and conclusions:

%s

Summary (%d words max):`
)
