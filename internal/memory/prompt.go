package memory

// Default consolidation instructions.
const (
	DefaultSummaryPrompt     = "Summarize the following conversation:"
	DefaultCompressionPrompt = "Summarize the following conversation, focusing on key information and removing redundancy:"
)

// buildPrompt joins the instruction and the rendered conversation with a
// blank line.
func buildPrompt(instruction, conversation string) string {
	return instruction + "\n\n" + conversation
}
