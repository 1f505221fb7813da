package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText replaces non-breaking spaces, drops non-printable characters,
// collapses runs of whitespace and trims the result.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = removeNonPrintable(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FindText returns the first text node under root (in document order) whose
// cleaned contents equal text, or nil.
func FindText(root *html.Node, text string) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.TextNode {
		if CleanText(root.Data) == text {
			return root
		}
		return nil
	}
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		found := FindText(child, text)
		if found != nil {
			return found
		}
	}
	return nil
}

// ContainsText reports whether any text node under root equals text after cleaning.
func ContainsText(root *html.Node, text string) bool {
	return FindText(root, text) != nil
}
