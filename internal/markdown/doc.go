// Package markdown discovers doc sources on disk, splits their front matter
// and parses the Markdown body into a goldmark AST. Turning that AST into a
// page record is the content package's job.
package markdown
