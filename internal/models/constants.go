package models

const (
	ContextSeparator = "\n\n"
)

var (
	SummaryPromptTemplate = `You are a legal assistant for Indian law. Answer using only the context below.

Context:
%s

Question: %s

Please provide:
1. A simple explanation in plain language (2-3 paragraphs)
2. A list of the most important points
3. A list of key legal terms and their definitions in the format "term: definition"
4. A list of important warnings or deadlines

Format the response as JSON with the following structure:
{
    "simple_explanation": "your simple explanation here",
    "key_points": ["point 1", "point 2"],
    "important_terms": ["term1: definition1", "term2: definition2"],
    "warnings_and_deadlines": ["warning1", "warning2"]
}
Answer only with the JSON and nothing else.`

	ProceduralPromptAddition = `
The question is about a legal procedure. Also include a clear step-by-step guide under the key "step_by_step_guide":
    "step_by_step_guide": [
        {
            "title": "Step title",
            "description": "Detailed explanation",
            "requirements": ["requirement1", "requirement2"]
        }
    ]
Make sure each step is clear, actionable, and includes any necessary requirements or documents.`

	NonLegalPromptAddition = `
The question may not be a legal question. If so, say that plainly in the explanation and keep the other lists short.`
)
