package endpoints

import (
	"bytes"
	_ "embed"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/alnpaa/certify/pkg/server"
)

//go:embed docs.md
var docsMarkdown []byte

var (
	docsOnce sync.Once
	docsHTML []byte
	docsErr  error
)

// RegisterDocsEndpoint registers the rendered API documentation page
func RegisterDocsEndpoint(s *server.Server) {
	s.Router.HandleFunc("/docs", handleDocs()).Methods("GET")
}

func handleDocs() http.HandlerFunc {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	return func(w http.ResponseWriter, r *http.Request) {
		docsOnce.Do(func() {
			var buf bytes.Buffer
			if err := md.Convert(docsMarkdown, &buf); err != nil {
				docsErr = err
				return
			}
			docsHTML = []byte(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Certify API</title>
  </head>
  <body>
` + buf.String() + `  </body>
</html>
`)
		})

		if docsErr != nil {
			http.Error(w, "Documentation is unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(docsHTML)
	}
}
