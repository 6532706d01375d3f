package pipeline

// Prompt templates for the AI stages. All of them demand bare JSON; the
// parsers still run cleanJSON/repairJSON because models wrap output anyway.

const rewriteQueryPrompt = `You are helping find PDF datasheets for an industrial part.

User query: %s

Rewrite it as a single web search query optimized for finding manufacturer
datasheet PDFs for this part. Keep model numbers and manufacturer names
verbatim. Add terms like "datasheet", "pdf", or "technical specifications"
where useful.

Return ONLY a JSON object: {"search_query": "..."}`

const extractSpecsPrompt = `You are extracting technical specifications from a single product datasheet.

Document content:
%s
%s
Extract the following as JSON:
- "manufacturer": the company that makes the part (string, "Unknown" if absent)
- "product_name": the specific model or part number this datasheet describes (string)
- "specs": an object mapping specification names to values EXACTLY as written
  in the document. Copy values verbatim including units (e.g. "24 VDC",
  "1.5 A", "IP67"). Do not convert units, round numbers, or paraphrase.

Include every specification the document states. Skip marketing text,
ordering information, and safety boilerplate.

Return ONLY the JSON object, no commentary and no markdown fences.`

// extractColumnsHint is appended to extractSpecsPrompt when the caller
// supplies predetermined column names.
const extractColumnsHint = `
Prioritize finding values for these specification names if the document
states them (use the document's own naming in the output):
%s
`

const filterSheetsPrompt = `You are checking which extracted datasheets actually describe this product type: %s

Datasheets:
%s

Return ONLY a JSON object listing the 1-based numbers of the datasheets that
describe that product type: {"matching_indices": [1, 3]}

If unsure about a datasheet, include it.`

const normalizeKeysPrompt = `Different datasheets name the same specification differently
(e.g. "Supply Voltage" / "Operating Voltage" / "Vcc"). Group the keys below
so equivalent specifications share one standardized name.

Specification keys per document:
%s

Return ONLY a JSON object. Each entry maps a standardized snake_case key to
its display name and, per document, the EXACT key string that document used.
Copy document keys character-for-character; never invent a key a document
does not have. Omit a document from "pdf_matches" when it has no equivalent
key. Order entries from most to least widely shared.

Format:
{
  "supply_voltage": {
    "display_name": "Supply Voltage",
    "pdf_matches": {"1": "Operating Voltage", "3": "Vcc"}
  }
}`
