package lsp

import (
	"encoding/json"
	"fmt"
)

// handleCodeAction handles the textDocument/codeAction request.
func (s *Server) handleCodeAction(msg *JSONRPCMessage) error {
	var params CodeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	actions := s.getCodeActions(params)
	s.sendResponse(msg.ID, actions, nil)
	return nil
}

// getCodeActions offers to replace every rewritable marker call of the
// document with its literal. The edit comes from the last analysis, so it
// is only offered while that analysis matches the open document.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	actions := []CodeAction{}

	uri := params.TextDocument.URI
	doc := s.documents.Get(uri)
	res := s.lastResult(uri)
	if doc == nil || res == nil || !res.Changed || string(res.Original) != doc.Content {
		return actions
	}

	kind := CodeActionKindQuickFix
	if len(params.Context.Only) > 0 {
		kind = ""
		for _, only := range params.Context.Only {
			if only == CodeActionKindQuickFix || only == CodeActionKindFixAll {
				kind = only
				break
			}
		}
		if kind == "" {
			return actions
		}
	}

	title := "Replace 1 marker call with its literal"
	if res.Replaced != 1 {
		title = fmt.Sprintf("Replace %d marker calls with their literals", res.Replaced)
	}

	return append(actions, CodeAction{
		Title:       title,
		Kind:        kind,
		IsPreferred: true,
		Edit: &WorkspaceEdit{
			Changes: map[string][]TextEdit{
				uri: {{Range: doc.FullRange(), NewText: string(res.Output)}},
			},
		},
	})
}
