// Package docs loads Markdown documents for the shell.
//
// Parse splits a document into sections at its headings. Each section gets
// a stable id derived from its heading; nested headings are prefixed with
// the id of their parent section and a double underscore, so "Linux" under
// "Install" becomes "install__linux". The first level one heading is taken
// as the document title.
package docs
