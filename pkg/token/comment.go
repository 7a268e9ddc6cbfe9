package token

// CommentKind distinguishes line vs block comments.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // // comment
	BlockComment                    // /* comment */
)

// Comment represents a source comment with its byte span.
type Comment struct {
	Kind CommentKind
	Text string // includes delimiters
	Span Span
}

// IsLineComment returns true if this is a line comment.
func (c *Comment) IsLineComment() bool {
	return c.Kind == LineComment
}

// IsDoc reports whether the comment is a /// documentation line.
func (c *Comment) IsDoc() bool {
	return c.Kind == LineComment && len(c.Text) >= 3 && c.Text[:3] == "///"
}
