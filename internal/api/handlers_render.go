package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookstruct/bookstruct/internal/book"
	"github.com/bookstruct/bookstruct/internal/classify"
	"github.com/bookstruct/bookstruct/internal/render"
)

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	res := s.completedResult(w, bookID)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(render.Markdown(res.Root)))
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	res := s.completedResult(w, bookID)
	if res == nil {
		return
	}
	out, err := render.HTML(res.Root)
	if err != nil {
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(out))
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	res := s.completedResult(w, bookID)
	if res == nil {
		return
	}
	html, err := render.HTML(res.Root)
	if err != nil {
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	outline, err := render.Outline(html)
	if err != nil {
		jsonError(w, "outline failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"book_id": bookID,
		"outline": outline,
	})
}

func (s *Server) handleSnippets(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	res := s.completedResult(w, bookID)
	if res == nil {
		return
	}
	snippets := classify.Runnable(collectSnippets(res.Root, bookID))
	if snippets == nil {
		snippets = []classify.Snippet{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"book_id":  bookID,
		"snippets": snippets,
	})
}

// collectSnippets walks the tree gathering code blocks, tagging each with
// the chapter it appeared under.
func collectSnippets(root *book.Node, bookID string) []classify.Snippet {
	var out []classify.Snippet
	chapter := 0
	root.Walk(func(n *book.Node) bool {
		if n.Kind == book.KindChapter {
			chapter = n.Number
		}
		if n.Kind == book.KindBlock && n.Block != nil && n.Block.Role.IsCode() {
			out = append(out, classify.Snippet{
				ID:      fmt.Sprintf("%s-code-%d", bookID, len(out)+1),
				Text:    n.Block.Text,
				Page:    n.Block.PageStart,
				REPL:    n.Block.Role == book.RoleCodeREPL,
				Chapter: chapter,
			})
		}
		return true
	})
	return out
}
