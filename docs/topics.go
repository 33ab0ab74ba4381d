// Package docs embeds the help topics of codexi.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed *.md
var files embed.FS

// index is the topic shown when none is requested. It is not listed among the topics.
const index = "readme"

// All stands for every topic in Read.
const All = "*"

// Topic is a help page.
type Topic struct {
	Name  string // as typed on the command line
	Title string // first level heading of the page
}

// Topics returns the help topics sorted by name.
func Topics() ([]Topic, error) {
	paths, err := fs.Glob(files, "*.md")
	if err != nil {
		return nil, err
	}
	var topics []Topic
	for _, path := range paths {
		name := strings.TrimSuffix(path, ".md")
		if name == index {
			continue
		}
		content, err := files.ReadFile(path)
		if err != nil {
			return nil, err
		}
		topics = append(topics, Topic{Name: name, Title: title(content, name)})
	}
	return topics, nil
}

// Names returns the names of the help topics.
func Names() ([]string, error) {
	topics, err := Topics()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	return names, nil
}

// Read returns the content of the named topics, one after the other.
func Read(names ...string) (string, error) {
	var b bytes.Buffer
	for _, name := range names {
		if name == All {
			all, err := Names()
			if err != nil {
				return "", err
			}
			content, err := Read(all...)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			continue
		}
		content, err := files.ReadFile(name + ".md")
		if err != nil {
			return "", fmt.Errorf("topic %q not found: %w", name, err)
		}
		b.Write(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Index returns the introduction followed by the list of topics and their titles.
func Index() (string, error) {
	intro, err := files.ReadFile(index + ".md")
	if err != nil {
		return "", err
	}
	topics, err := Topics()
	if err != nil {
		return "", err
	}
	items := make([]string, len(topics))
	for i, t := range topics {
		items[i] = fmt.Sprintf("`%s`: %s", t.Name, t.Title)
	}

	var b bytes.Buffer
	doc := md.NewMarkdown(&b)
	doc.H2("Topics")
	doc.BulletList(items...)
	return string(intro) + "\n" + doc.String() + "\n", nil
}

// title returns the text of the first level one heading of content, or fallback.
func title(content []byte, fallback string) string {
	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			continue
		}
		var s strings.Builder
		for c := h.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				s.Write(t.Segment.Value(content))
			}
		}
		if s.Len() > 0 {
			return s.String()
		}
	}
	return fallback
}
