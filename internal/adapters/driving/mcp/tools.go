package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested documents"`
	Strict   bool   `json:"strict,omitempty" jsonschema:"answer only from the retrieved evidence and refuse when it is insufficient"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string         `json:"answer"`
	Citations []int          `json:"citations,omitempty"`
	Sources   []SourceOutput `json:"sources,omitempty"`
	Warning   string         `json:"warning,omitempty"`
}

// SourceOutput describes one evidence chunk behind an answer.
type SourceOutput struct {
	Label    string  `json:"label"`
	Document string  `json:"document"`
	Page     int     `json:"page"`
	Score    float64 `json:"score"`
	Used     bool    `json:"used"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the text to find evidence for"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of chunks to return (default 6)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks []ChunkOutput `json:"chunks"`
	Count  int           `json:"count"`
}

// ChunkOutput represents a single retrieved chunk.
type ChunkOutput struct {
	ChunkID  string  `json:"chunk_id"`
	Document string  `json:"document"`
	Page     int     `json:"page"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question in Korean, grounded in the ingested documents with [C#] citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the most relevant document chunks for a query, without generating an answer",
	}, s.handleRetrieve)
}

// handleAsk handles the ask tool invocation. It blocks until the answer
// finished generating, then returns the final text with its sources.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if !s.ports.Engine.GeneratorReady() {
		if err := s.ports.Engine.LoadGenerator(ctx, ""); err != nil {
			return nil, AskOutput{}, err
		}
	}

	opts := domain.AskOptions{Strict: input.Strict, ShowContext: true}
	if err := s.ports.Engine.Ask(ctx, input.Question, opts); err != nil {
		return nil, AskOutput{}, err
	}

	transcript := s.ports.Engine.Transcript()
	answer := transcript[len(transcript)-1]

	output := AskOutput{Answer: answer.Text}
	if meta := answer.Meta; meta != nil {
		output.Citations = meta.Citations
		output.Warning = meta.Warning
		output.Sources = make([]SourceOutput, len(meta.Sources))
		for i, src := range meta.Sources {
			output.Sources[i] = SourceOutput{
				Label:    src.Label(),
				Document: src.DocName,
				Page:     src.Page,
				Score:    src.Score,
				Used:     src.Used,
			}
		}
	}

	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	hits, err := s.ports.Retriever.Retrieve(ctx, input.Query, input.K)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Chunks: make([]ChunkOutput, len(hits)),
		Count:  len(hits),
	}
	for i, hit := range hits {
		output.Chunks[i] = ChunkOutput{
			ChunkID:  hit.Chunk.ID,
			Document: hit.Chunk.DocName,
			Page:     hit.Chunk.Page,
			Score:    hit.Score,
			Text:     hit.Chunk.Text,
		}
	}

	return nil, output, nil
}
