package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dkristoff/bibliocr/internal/store"
)

func (s *Server) registerDatabaseTools() {
	s.mcp.AddTool(
		mcp.NewTool("build_word_frequency",
			mcp.WithDescription("Clear and repopulate the word frequency table from a text file or a folder of text files."),
			mcp.WithString("text_path", mcp.Required(), mcp.Description("Path to a .txt file or a folder of .txt files")),
		),
		s.handleBuildWordFrequency,
	)

	s.mcp.AddTool(
		mcp.NewTool("query_word_frequency",
			mcp.WithDescription("Look up how often a word occurs. An absent word reports zero."),
			mcp.WithString("word", mcp.Required(), mcp.Description("Word to look up")),
		),
		s.handleQueryWordFrequency,
	)

	s.mcp.AddTool(
		mcp.NewTool("top_words",
			mcp.WithDescription("List the most frequent words."),
			mcp.WithNumber("limit", mcp.Description("How many words to return (default 10)")),
		),
		s.handleTopWords,
	)

	s.mcp.AddTool(
		mcp.NewTool("clear_word_frequency",
			mcp.WithDescription("Remove all rows from the word frequency table."),
		),
		s.handleClearWordFrequency,
	)

	s.mcp.AddTool(
		mcp.NewTool("process_ground_truth_folder",
			mcp.WithDescription("Parse every ground-truth text file in a folder into bibliography entries."),
			mcp.WithString("folder", mcp.Description("Folder of .txt files (default: configured ground-truth dir)")),
		),
		s.handleProcessGroundTruthFolder,
	)

	s.mcp.AddTool(
		mcp.NewTool("import_bibliography_json",
			mcp.WithDescription("Import a JSON array of catalog records into the bibliography database. Malformed elements are skipped."),
			mcp.WithString("json_path", mcp.Required(), mcp.Description("Path to the JSON file")),
		),
		s.handleImportJSON,
	)

	s.mcp.AddTool(
		mcp.NewTool("search_bibliography",
			mcp.WithDescription("Keyword search over bibliography entries. Plain substring matching, no ranking."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Keyword or phrase to match")),
		),
		s.handleSearchBibliography,
	)

	s.mcp.AddTool(
		mcp.NewTool("display_all_bibliography_entries",
			mcp.WithDescription("Display every bibliography entry."),
			mcp.WithString("format", mcp.Description("compact (default) or detailed")),
		),
		s.handleDisplayBibliography,
	)

	s.mcp.AddTool(
		mcp.NewTool("clear_bibliography",
			mcp.WithDescription("Empty a bibliography table. Clearing an empty table succeeds."),
			mcp.WithString("table", mcp.Description("bibliography, biblio_entries or all (default all)")),
		),
		s.handleClearBibliography,
	)
}

func (s *Server) handleBuildWordFrequency(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	textPath, err := req.RequireString("text_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, files, err := gatherText(textPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error reading %s: %v", textPath, err)), nil
	}
	words, err := s.store.RebuildWordFrequencies(text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("word frequency error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Word frequency table rebuilt from %d file(s): %d distinct words.", files, words)), nil
}

func (s *Server) handleQueryWordFrequency(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	count, err := s.store.LookupWord(word)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%q occurs %d time(s).", word, count)), nil
}

func (s *Server) handleTopWords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	words, err := s.store.TopWords(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query error: %v", err)), nil
	}
	if len(words) == 0 {
		return mcp.NewToolResultText("Word frequency table is empty."), nil
	}
	var sb strings.Builder
	for i, wc := range words {
		sb.WriteString(fmt.Sprintf("%d. %s (%d)\n", i+1, wc.Word, wc.Count))
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

func (s *Server) handleClearWordFrequency(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.store.ClearWordFrequencies(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clear error: %v", err)), nil
	}
	return mcp.NewToolResultText("Word frequency table cleared."), nil
}

func (s *Server) handleProcessGroundTruthFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := req.GetString("folder", s.cfg.GroundTruthDir)

	entries, err := os.ReadDir(folder)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: folder not found at %s", folder)), nil
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	inserted, filesFailed := 0, 0
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(folder, name))
		if err != nil {
			filesFailed++
			continue
		}
		var parsed []store.Entry
		for _, block := range store.SplitEntries(string(data)) {
			parsed = append(parsed, store.ParseEntry(block))
		}
		n, err := s.store.InsertEntries(parsed)
		inserted += n
		if err != nil {
			filesFailed++
		}
	}

	msg := fmt.Sprintf("Processed %d file(s): %d bibliography entries inserted.", len(names), inserted)
	if filesFailed > 0 {
		msg += fmt.Sprintf(" %d file(s) had errors.", filesFailed)
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleImportJSON(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonPath, err := req.RequireString("json_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	inserted, skipped, err := s.store.ImportJSON(jsonPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("import error: %v", err)), nil
	}
	msg := fmt.Sprintf("Imported %d record(s) from %s.", inserted, jsonPath)
	if skipped > 0 {
		msg += fmt.Sprintf(" Skipped %d malformed record(s).", skipped)
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleSearchBibliography(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, jsonEntries, err := s.store.SearchBibliography(query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
	}
	if len(entries) == 0 && len(jsonEntries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No entries match %q.", query)), nil
	}
	return mcp.NewToolResultText(store.FormatEntries(entries, jsonEntries, "compact")), nil
}

func (s *Server) handleDisplayBibliography(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", "compact")
	if format != "compact" && format != "detailed" {
		return mcp.NewToolResultError(fmt.Sprintf("unknown format: %s", format)), nil
	}
	entries, err := s.store.ListEntries()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list error: %v", err)), nil
	}
	jsonEntries, err := s.store.ListJSONEntries()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list error: %v", err)), nil
	}
	if len(entries)+len(jsonEntries) == 0 {
		return mcp.NewToolResultText(store.FormatEntries(entries, jsonEntries, format)), nil
	}
	summary := fmt.Sprintf("Bibliography holds %d entries total: %d text-derived, %d catalog.",
		len(entries)+len(jsonEntries), len(entries), len(jsonEntries))
	return mcp.NewToolResultText(summary + "\n\n" + store.FormatEntries(entries, jsonEntries, format)), nil
}

func (s *Server) handleClearBibliography(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := req.GetString("table", "all")
	if err := s.store.ClearBibliography(table); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clear error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cleared %s.", table)), nil
}

// gatherText reads one .txt file, or concatenates every .txt file in a folder.
func gatherText(path string) (string, int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, err
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		return string(data), 1, err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", 0, err
	}
	var sb strings.Builder
	files := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(path, e.Name()))
		if err != nil {
			continue
		}
		sb.Write(data)
		sb.WriteString("\n")
		files++
	}
	if files == 0 {
		return "", 0, fmt.Errorf("no .txt files in %s", path)
	}
	return sb.String(), files, nil
}
