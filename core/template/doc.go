// Package template turns prompt templates into role-tagged chat messages.
//
// Rendering and parsing are two separate pure stages. [Render] expands
// {{name}} and {{ cond ? 'a' : 'b' }} expressions in a single textual pass,
// so a variable whose value contains template syntax or role tags is
// inserted verbatim and never re-scanned. [ParseRoleTags] then splits the
// rendered text on <SYSTEM>, <USER> and <ASSISTANT> blocks.
//
// Both stages are lenient: unknown variables render as "" and malformed
// tags stay literal text. [RenderStrict] reports unresolved names instead.
package template
