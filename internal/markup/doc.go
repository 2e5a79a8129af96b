// Package markup holds the renderer-neutral page tree. Markdown ASTs are
// projected into Nodes whose element kinds match component map keys, so the
// same tree can be rendered through any resolved component map.
package markup
