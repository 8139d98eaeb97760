package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	stateURI       = "pdfmark://workspace/state"
	spansURIPrefix = "pdfmark://page/"
)

func (s *Server) registerResources() {
	// ── pdfmark://workspace/state ──────────────────────
	s.mcp.AddResource(mcp.NewResource(
		stateURI,
		"Workspace State",
		mcp.WithMIMEType("application/json"),
	), s.handleStateResource)

	// ── pdfmark://page/{page}/spans ────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"pdfmark://page/{page}/spans",
			"Text Spans on a Page",
		),
		s.handlePageSpansResource,
	)
}

func (s *Server) handleStateResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.workspace.State(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      stateURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handlePageSpansResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	page, err := pageFromSpansURI(uri)
	if err != nil {
		return nil, err
	}
	spans, err := s.workspace.Spans(page)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(spans, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// pageFromSpansURI extracts the page from pdfmark://page/{page}/spans.
func pageFromSpansURI(uri string) (int, error) {
	rest, ok := strings.CutPrefix(uri, spansURIPrefix)
	if ok {
		rest, ok = strings.CutSuffix(rest, "/spans")
	}
	if !ok {
		return 0, fmt.Errorf("invalid spans URI: %s", uri)
	}
	page, err := strconv.Atoi(rest)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid page in URI: %s", uri)
	}
	return page, nil
}
