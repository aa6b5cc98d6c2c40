package util

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NameCollator orders display names the way a user's locale would, so
// "apple" sorts next to "Apple" instead of after every capital letter.
// It is not safe for concurrent use.
type NameCollator struct {
	c *collate.Collator
}

func NewNameCollator() *NameCollator {
	return &NameCollator{c: collate.New(language.English)}
}

func (n *NameCollator) Compare(a, b string) int {
	return n.c.CompareString(a, b)
}
