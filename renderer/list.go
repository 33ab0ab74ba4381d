package renderer

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"
)

// ListMarkdown renders names (archives, snapshots) under a title.
func ListMarkdown(title string, names []string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	if len(names) == 0 {
		doc.PlainText(fmt.Sprintf("No %s.", strings.ToLower(title)))
		return doc.String()
	}
	doc.BulletList(names...)
	return doc.String()
}
